package repository

import (
	"time"

	"github.com/wcastillo/catalogo-api/internal/domain/entity"
)

// EmailLogFilter acota el listado de logs de correo.
// Summary es coincidencia parcial case-insensitive sobre el resumen (así se
// busca por nombre de cliente sin FK). Limit 0 usa el tope del repositorio.
type EmailLogFilter struct {
	From    *time.Time
	To      *time.Time
	Summary string
	Type    string
	Limit   int
}

// EmailLogRepository define el puerto de persistencia para EmailLog (DIP).
// La bitácora es append-only: no hay Update ni Delete.
type EmailLogRepository interface {
	Create(log *entity.EmailLog) error
	List(filter EmailLogFilter) ([]*entity.EmailLog, error)
}
