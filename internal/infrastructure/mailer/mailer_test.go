package mailer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
	"github.com/wcastillo/catalogo-api/pkg/config"
	"github.com/wcastillo/catalogo-api/pkg/logger"
)

// fakeSender simula el dialer SMTP.
type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

// fakeEmailLogRepo captura las entradas de la bitácora.
type fakeEmailLogRepo struct {
	entries []*entity.EmailLog
	err     error
}

func (r *fakeEmailLogRepo) Create(e *entity.EmailLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeEmailLogRepo) List(_ repository.EmailLogFilter) ([]*entity.EmailLog, error) {
	return r.entries, nil
}

func testNotification() usecase.OrderNotification {
	return usecase.OrderNotification{
		Type: entity.EmailTypeOrderCreated,
		Code: "CAT-4821",
		Customer: entity.Customer{
			Name:  "Laura Medina",
			Email: "laura@example.com",
			Phone: "3001234567",
		},
		Items: []usecase.NotificationItem{
			{ProductName: "Silla ergonómica", Variant: entity.Variant{Model: "M-01"}, Quantity: 2},
		},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func TestDispatch_EnvioExitoso_RegistraSent(t *testing.T) {
	sender := &fakeSender{}
	logs := &fakeEmailLogRepo{}
	m := NewWithSender(config.SMTPConfig{From: "pedidos@catalogo.test", BCC: "dueno@catalogo.test"}, sender, logs, testLogger())

	m.Dispatch(testNotification())

	require.Len(t, sender.sent, 1)
	require.Len(t, logs.entries, 1)
	entry := logs.entries[0]
	assert.Equal(t, entity.EmailOutcomeSent, entry.Outcome)
	assert.Equal(t, entity.EmailTypeOrderCreated, entry.Type)
	assert.Equal(t, []string{"laura@example.com", "dueno@catalogo.test"}, entry.Recipients,
		"el BCC del administrador cuenta como destinatario")
	assert.Contains(t, entry.Summary, "CAT-4821")
	assert.Empty(t, entry.Error)
}

func TestDispatch_FalloDeEnvio_RegistraFailed(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	logs := &fakeEmailLogRepo{}
	m := NewWithSender(config.SMTPConfig{From: "pedidos@catalogo.test"}, sender, logs, testLogger())

	// El contrato del puerto: Dispatch no devuelve error, solo registra.
	m.Dispatch(testNotification())

	require.Len(t, logs.entries, 1)
	entry := logs.entries[0]
	assert.Equal(t, entity.EmailOutcomeFailed, entry.Outcome)
	assert.Contains(t, entry.Error, "connection refused")
	assert.Contains(t, entry.Summary, "Fallo al enviar")
}

func TestDispatch_FalloDeBitacora_NoPanic(t *testing.T) {
	sender := &fakeSender{}
	logs := &fakeEmailLogRepo{err: errors.New("db caída")}
	m := NewWithSender(config.SMTPConfig{From: "pedidos@catalogo.test"}, sender, logs, testLogger())

	// Ni el fallo de la bitácora debe escapar del dispatcher.
	assert.NotPanics(t, func() { m.Dispatch(testNotification()) })
	assert.Len(t, sender.sent, 1, "el correo sí se envió")
}

func TestRenderBody_EscapaValoresDelCliente(t *testing.T) {
	n := testNotification()
	n.Customer.Name = `<script>alert("x")</script>`

	body := renderBody(n)
	assert.NotContains(t, body, "<script>", "los datos del formulario público se escapan")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "CAT-4821")
	assert.Contains(t, body, "Silla ergonómica")
}
