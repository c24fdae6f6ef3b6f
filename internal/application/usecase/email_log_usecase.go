package usecase

import (
	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

// emailLogLimit tope del listado de la bitácora (auditoría, no paginada).
const emailLogLimit = 100

// EmailLogUseCase consulta de la bitácora de notificaciones (solo lectura:
// los registros los escribe el dispatcher, nunca este módulo).
type EmailLogUseCase struct {
	repo repository.EmailLogRepository
}

// NewEmailLogUseCase construye el caso de uso.
func NewEmailLogUseCase(repo repository.EmailLogRepository) *EmailLogUseCase {
	return &EmailLogUseCase{repo: repo}
}

// List lista registros, más recientes primero, con tope de 100.
// El filtro por cliente busca dentro del resumen (no hay FK hacia pedidos).
func (uc *EmailLogUseCase) List(q dto.EmailLogQuery) ([]dto.EmailLogResponse, error) {
	from, to, err := parseDateRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	filter := repository.EmailLogFilter{
		From:    from,
		To:      to,
		Summary: q.Customer,
		Limit:   emailLogLimit,
	}
	// Tipos fuera del conjunto conocido se ignoran (no filtran nada).
	if q.Type == entity.EmailTypeOrderCreated || q.Type == entity.EmailTypeOrderEdited {
		filter.Type = q.Type
	}
	logs, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmailLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.EmailLogResponse{
			ID:         l.ID,
			Type:       l.Type,
			Recipients: l.Recipients,
			Outcome:    l.Outcome,
			Error:      l.Error,
			Summary:    l.Summary,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
