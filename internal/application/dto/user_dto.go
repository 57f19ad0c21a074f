package dto

// LoginRequest credenciales enviadas por el formulario de login.
// La forma (email válido, password ≥ 6) la valida el autenticador, no el handler.
type LoginRequest struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	CallbackURL string `json:"callbackUrl" form:"callbackUrl"`
}

// PrincipalResponse usuario autenticado (sin password).
type PrincipalResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginPageResponse estado de la página de login (el render HTML es externo).
type LoginPageResponse struct {
	CallbackURL string `json:"callback_url,omitempty"`
	Message     string `json:"message,omitempty"`
}
