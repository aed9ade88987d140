package email

import (
	"context"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

// LogSender escribe el mensaje en el log. Solo desarrollo: el cuerpo
// incluye el link de reset.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.From(ctx).Info("email (log driver)",
		logger.Component("email.log"),
		logger.Email(msg.To),
		logger.String("subject", msg.Subject),
		logger.String("body", msg.Text),
	)
	return nil
}
