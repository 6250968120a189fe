package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InfoResponse aviso informativo (la operación no se realizó pero no es un error).
type InfoResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
