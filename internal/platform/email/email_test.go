package email

import (
	"context"
	"strings"
	"testing"

	"engage/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	mailer := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	if err := mailer.Send(context.Background(), "a@example.com", "b@example.com", "hi", "body"); err != nil {
		t.Fatalf("disabled mailer errored: %v", err)
	}
}

func TestSubjectTagOnlyOutsideProduction(t *testing.T) {
	if got := subjectTag("production"); got != "" {
		t.Fatalf("production mail must not be tagged, got %q", got)
	}
	if got := subjectTag("staging"); got != "[staging] " {
		t.Fatalf("expected staging tag, got %q", got)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(buildMessage("from@example.com", "to@example.com", "[staging] Cycle activated", "body"))
	for _, want := range []string{
		"From: from@example.com\r\n",
		"To: to@example.com\r\n",
		"Subject: [staging] Cycle activated\r\n",
		"Date: ",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\nbody") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}
