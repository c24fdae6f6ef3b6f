package dto

// ErrorResponse cuerpo de error HTTP.
// Code es un identificador estable para el front; Message es legible y nunca
// incluye detalle interno (stack, SQL, ids de infraestructura).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
