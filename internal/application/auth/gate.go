package auth

import "strings"

// Decision resultado de evaluar el acceso a una ruta.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToDashboard:
		return "redirect_to_dashboard"
	default:
		return "unknown"
	}
}

// GateConfig rutas bajo la autoridad del gate.
type GateConfig struct {
	ProtectedPrefix string
	LoginPath       string
	DashboardPath   string
}

// DefaultGateConfig /dashboard protegido, /login como página de entrada.
func DefaultGateConfig() GateConfig {
	return GateConfig{ProtectedPrefix: "/dashboard", LoginPath: "/login", DashboardPath: "/dashboard"}
}

// Gate decide el acceso por ruta. Sin estado: el mismo par de entradas da siempre la misma decisión.
type Gate struct {
	cfg GateConfig
}

// NewGate construye el gate.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{cfg: cfg}
}

// Config devuelve las rutas configuradas.
func (g *Gate) Config() GateConfig { return g.cfg }

// Decide aplica la tabla:
//
//	sesión | ruta protegida | decisión
//	no     | sí             | RedirectToLogin
//	sí     | sí             | Allow
//	sí     | no             | RedirectToDashboard
//	no     | no             | Allow
func (g *Gate) Decide(principalPresent bool, path string) Decision {
	protected := g.IsProtected(path)
	switch {
	case protected && !principalPresent:
		return RedirectToLogin
	case !protected && principalPresent:
		return RedirectToDashboard
	default:
		return Allow
	}
}

// IsProtected prefijo de ruta respetando el límite de segmento ("/dashboardx" no está protegido).
func (g *Gate) IsProtected(path string) bool {
	prefix := strings.TrimRight(g.cfg.ProtectedPrefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
