package dto

import "time"

// EmailLogResponse salida de un registro de la bitácora de correos.
type EmailLogResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Recipients []string  `json:"recipients"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmailLogQuery filtros del listado de la bitácora.
// Customer busca por coincidencia parcial dentro del resumen.
type EmailLogQuery struct {
	From     string `query:"from"`
	To       string `query:"to"`
	Customer string `query:"customer"`
	Type     string `query:"type"`
}
