// adminctl herramientas de operación del panel: hash de contraseñas, carga de datos
// iniciales en PostgreSQL y una sesión de búsqueda por consola.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
