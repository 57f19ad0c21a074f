package entity

// User representa un usuario que puede iniciar sesión en el panel.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"` // bcrypt hash, nunca plano
}
