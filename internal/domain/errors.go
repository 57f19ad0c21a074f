package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrUnauthorized el backend rechazó la credencial del servicio.
	ErrUnauthorized = errors.New("no autorizado")
	// ErrBackend envuelve fallos de red o respuestas no exitosas del almacén de datos.
	ErrBackend = errors.New("error del backend")
)
