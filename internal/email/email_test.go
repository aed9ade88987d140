package email_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/email"
	"github.com/jeancarlosleonvega/admin-dashboard/internal/observability/logger"
)

func TestResetLinkCarriesToken(t *testing.T) {
	link, err := email.ResetLink("http://localhost:5173/reset-password?lang=es", "abc123")
	if err != nil {
		t.Fatalf("ResetLink: %v", err)
	}
	u, _ := url.Parse(link)
	if u.Query().Get("token") != "abc123" || u.Query().Get("lang") != "es" {
		t.Fatalf("unexpected link %q", link)
	}
}

func TestRenderResetEscapesHTML(t *testing.T) {
	msg, err := email.RenderReset("ada@example.com", email.ResetVars{
		Name:      "<b>Ada</b>",
		UserEmail: "ada@example.com",
		Link:      "http://x/reset?token=t",
		TTL:       email.HumanTTL(time.Hour),
	})
	if err != nil {
		t.Fatalf("RenderReset: %v", err)
	}
	if msg.Subject != email.ResetSubject || msg.To != "ada@example.com" {
		t.Fatalf("unexpected header fields: %+v", msg)
	}
	if strings.Contains(msg.HTML, "<b>Ada</b>") {
		t.Fatal("html body must escape user data")
	}
	if !strings.Contains(msg.Text, "1 hour") || !strings.Contains(msg.Text, "http://x/reset?token=t") {
		t.Fatalf("text body missing fields: %s", msg.Text)
	}
}

func TestHumanTTL(t *testing.T) {
	cases := map[time.Duration]string{
		time.Hour:        "1 hour",
		3 * time.Hour:    "3 hours",
		90 * time.Minute: "90 minutes",
		30 * time.Second: "30s",
	}
	for d, want := range cases {
		if got := email.HumanTTL(d); got != want {
			t.Errorf("HumanTTL(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestNewSelectsDriver(t *testing.T) {
	if _, err := email.New(email.Config{Driver: "smtp"}); err == nil {
		t.Fatal("smtp without host must fail")
	}
	if _, err := email.New(email.Config{Driver: "pigeon"}); err == nil {
		t.Fatal("unknown driver must fail")
	}
	s, err := email.New(email.Config{Driver: "smtp", Host: "mail.local", From: "no-reply@example.com"})
	if err != nil {
		t.Fatalf("New smtp: %v", err)
	}
	smtp, ok := s.(*email.SMTPSender)
	if !ok || smtp.Port != 587 || smtp.TLSMode != "auto" {
		t.Fatalf("unexpected smtp sender %+v", s)
	}
}

func TestLogSenderWritesToContextLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	if err := (email.LogSender{}).Send(ctx, email.Message{To: "ada@example.com", Subject: "hi", Text: "body"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["email"]; got != "a…@e….com" {
		t.Fatalf("email field = %v", got)
	}
}
