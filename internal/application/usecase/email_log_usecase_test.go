package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcastillo/catalogo-api/internal/application/dto"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
)

// fakeEmailLogRepo registra el filtro recibido para inspeccionarlo.
type fakeEmailLogRepo struct {
	lastFilter repository.EmailLogFilter
	logs       []*entity.EmailLog
}

func (r *fakeEmailLogRepo) Create(l *entity.EmailLog) error {
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeEmailLogRepo) List(f repository.EmailLogFilter) ([]*entity.EmailLog, error) {
	r.lastFilter = f
	return r.logs, nil
}

func TestEmailLogList_TraduceFiltros(t *testing.T) {
	repo := &fakeEmailLogRepo{}
	uc := usecase.NewEmailLogUseCase(repo)

	_, err := uc.List(dto.EmailLogQuery{
		From:     "2026-08-01",
		To:       "2026-08-28",
		Customer: "Laura",
		Type:     entity.EmailTypeOrderEdited,
	})
	require.NoError(t, err)

	f := repo.lastFilter
	assert.Equal(t, "Laura", f.Summary, "el filtro por cliente busca dentro del resumen")
	assert.Equal(t, entity.EmailTypeOrderEdited, f.Type)
	assert.Equal(t, 100, f.Limit)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	// "to" es inclusivo: cubre hasta el final del día.
	assert.Equal(t, 28, f.To.Day())
	assert.Equal(t, 23, f.To.Hour())
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *f.From)
}

func TestEmailLogList_TipoDesconocidoSeIgnora(t *testing.T) {
	repo := &fakeEmailLogRepo{}
	uc := usecase.NewEmailLogUseCase(repo)

	_, err := uc.List(dto.EmailLogQuery{Type: "newsletter"})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.Type, "un tipo fuera del conjunto conocido no filtra")
}

func TestEmailLogList_FechaInvalida(t *testing.T) {
	uc := usecase.NewEmailLogUseCase(&fakeEmailLogRepo{})
	_, err := uc.List(dto.EmailLogQuery{From: "01/08/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
