package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	"net/url"
	texttpl "text/template"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

var (
	resetHTML = htmltpl.Must(htmltpl.ParseFS(templateFS, "templates/reset_password.html"))
	resetTXT  = texttpl.Must(texttpl.ParseFS(templateFS, "templates/reset_password.txt"))
)

// ResetSubject es el asunto del correo de reset.
const ResetSubject = "Reset your password"

// ResetVars son los datos de la plantilla de reset.
type ResetVars struct {
	Name      string
	UserEmail string
	Link      string
	TTL       string
}

// ResetLink arma el link al frontend con el token en query (?token=).
func ResetLink(baseURL, rawToken string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("email: reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", rawToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HumanTTL formatea una duración para el cuerpo del correo.
func HumanTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}

// RenderReset renderiza el correo de reset.
func RenderReset(to string, v ResetVars) (Message, error) {
	if v.Name == "" {
		v.Name = "there"
	}
	var h, t bytes.Buffer
	if err := resetHTML.Execute(&h, v); err != nil {
		return Message{}, fmt.Errorf("email: render reset html: %w", err)
	}
	if err := resetTXT.Execute(&t, v); err != nil {
		return Message{}, fmt.Errorf("email: render reset text: %w", err)
	}
	return Message{To: to, Subject: ResetSubject, HTML: h.String(), Text: t.String()}, nil
}
