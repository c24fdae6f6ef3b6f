package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wcastillo/catalogo-api/internal/application/usecase"
	"github.com/wcastillo/catalogo-api/internal/domain/entity"
	"github.com/wcastillo/catalogo-api/internal/domain/repository"
	"github.com/wcastillo/catalogo-api/pkg/config"
	"github.com/wcastillo/catalogo-api/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Verificar en tiempo de compilación que Mailer implementa el puerto.
var _ usecase.Notifier = (*Mailer)(nil)

// sender abstrae gomail para poder inyectar un fake en tests.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer envía el resumen del pedido al cliente por SMTP y registra cada
// intento en la bitácora. Cumple el contrato del puerto: nunca devuelve error
// al caso de uso; un fallo de envío queda logueado y registrado como "failed".
type Mailer struct {
	cfg    config.SMTPConfig
	sender sender
	logs   repository.EmailLogRepository
	log    *logger.Logger
}

// New construye el dispatcher con el dialer SMTP real.
func New(cfg config.SMTPConfig, logs repository.EmailLogRepository, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logs:   logs,
		log:    log,
	}
}

// NewWithSender construye el dispatcher con un sender inyectado (tests).
func NewWithSender(cfg config.SMTPConfig, s sender, logs repository.EmailLogRepository, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, sender: s, logs: logs, log: log}
}

// Dispatch envía la confirmación y registra el resultado. Best-effort por
// contrato: el pedido ya está persistido y ningún fallo aquí lo revierte.
func (m *Mailer) Dispatch(n usecase.OrderNotification) {
	recipients := []string{n.Customer.Email}
	if m.cfg.BCC != "" {
		recipients = append(recipients, m.cfg.BCC)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", n.Customer.Email)
	if m.cfg.BCC != "" {
		msg.SetHeader("Bcc", m.cfg.BCC)
	}
	msg.SetHeader("Subject", "Confirmación de tu pedido - Catálogo")
	msg.SetBody("text/html", renderBody(n))

	entry := &entity.EmailLog{
		ID:         uuid.New().String(),
		Type:       n.Type,
		Recipients: recipients,
		Outcome:    entity.EmailOutcomeSent,
		Summary:    fmt.Sprintf("Pedido %s de %s con %d productos.", n.Code, n.Customer.Name, len(n.Items)),
		CreatedAt:  time.Now(),
	}

	if err := m.sender.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("code", n.Code).Str("type", n.Type).Msg("envío de correo de pedido")
		entry.Outcome = entity.EmailOutcomeFailed
		entry.Error = err.Error()
		entry.Summary = fmt.Sprintf("Fallo al enviar pedido %s de %s.", n.Code, n.Customer.Name)
	}

	if err := m.logs.Create(entry); err != nil {
		// La bitácora tampoco puede tumbar la operación de pedido.
		m.log.Error().Err(err).Str("code", n.Code).Msg("registro en bitácora de correos")
	}
}

// renderBody arma el HTML del resumen. Los valores del cliente se escapan:
// llegan de un formulario público.
func renderBody(n usecase.OrderNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Gracias por tu pedido, %s</h2>", html.EscapeString(n.Customer.Name))
	b.WriteString("<p>Confirmamos que hemos recibido tu solicitud.</p>")
	fmt.Fprintf(&b, "<p><strong>Número de pedido:</strong> <span style=\"color: green\">%s</span></p>", html.EscapeString(n.Code))
	b.WriteString("<p><strong>Resumen:</strong></p><ul>")
	for _, it := range n.Items {
		fmt.Fprintf(&b, "<li><strong>%s</strong><br>Modelo: %s | Medida: %s | Material: %s<br>Cantidad: <strong>%d</strong></li>",
			html.EscapeString(it.ProductName),
			html.EscapeString(orDash(it.Variant.Model)),
			html.EscapeString(orDash(it.Variant.Size)),
			html.EscapeString(orDash(it.Variant.Material)),
			it.Quantity,
		)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Datos de contacto:</strong><br>Email: %s<br>Teléfono: %s",
		html.EscapeString(n.Customer.Email), html.EscapeString(n.Customer.Phone))
	if n.Customer.Company != "" {
		fmt.Fprintf(&b, "<br>Empresa: %s", html.EscapeString(n.Customer.Company))
	}
	b.WriteString("</p>")
	fmt.Fprintf(&b, "<p>Fecha: %s</p>", time.Now().Format("02/01/2006 15:04"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
