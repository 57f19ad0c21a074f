package entity

// Revenue ingreso mensual para el gráfico del dashboard (centavos).
type Revenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}
