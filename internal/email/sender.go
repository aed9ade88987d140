package email

import (
	"context"
	"fmt"
	"strings"
)

// Message es un correo listo para enviar.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender entrega mensajes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config selecciona y configura el Sender.
type Config struct {
	Driver             string // "smtp" | "log"
	Host               string
	Port               int
	From               string
	User               string
	Password           string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// New construye el Sender del driver configurado.
func New(cfg Config) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "smtp":
		if cfg.Host == "" || cfg.From == "" {
			return nil, fmt.Errorf("email: smtp requires host and from")
		}
		return FromConfig(cfg), nil
	case "log", "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("email: unknown driver %q", cfg.Driver)
	}
}
