package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Operator string `json:"operator" validate:"required"`
	PIN      string `json:"pin" validate:"required"`
}

// LoginResponse token emitido para el operador.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
