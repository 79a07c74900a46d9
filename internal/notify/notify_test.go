package notify

import (
	"strings"
	"testing"

	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/user"
)

func testEvent() CommentReply {
	return CommentReply{
		Recipient: user.User{Username: "bob", Email: "bob@example.com"},
		Model: model.Info{
			ID:         model.ID{Namespace: "com.example", Name: "Light", Version: "1.0.0"},
			Author:     "bob",
			Visibility: model.VisibilityPublic,
		},
		Content: "Looks great!",
	}
}

func TestFormatReplyBody(t *testing.T) {
	body := formatReplyBody(testEvent())

	for _, want := range []string{"bob", "com.example:Light:1.0.0", "Looks great!"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("hub@example.com", "bob@example.com", "New comment on com.example:Light:1.0.0", "body text")

	checks := []string{
		"From: hub@example.com\r\n",
		"To: bob@example.com\r\n",
		"Subject: New comment on com.example:Light:1.0.0\r\n",
		"\r\n\r\nbody text",
	}
	for _, want := range checks {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendRequiresEmail(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.example.com", Port: "587", From: "hub@example.com"})

	ev := testEvent()
	ev.Recipient.Email = ""

	if err := n.Send(ev); err == nil {
		t.Error("expected error for recipient without email")
	}
}

func TestSMTPConfigIsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  SMTPConfig
		want bool
	}{
		{"empty", SMTPConfig{}, false},
		{"host only", SMTPConfig{Host: "smtp.example.com"}, false},
		{"from only", SMTPConfig{From: "hub@example.com"}, false},
		{"host and from", SMTPConfig{Host: "smtp.example.com", From: "hub@example.com"}, true},
	}
	for _, tt := range tests {
		if got := tt.cfg.IsConfigured(); got != tt.want {
			t.Errorf("%s: IsConfigured() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLogNotifier(t *testing.T) {
	// Must never fail — creation flow ignores notifier errors anyway.
	if err := (LogNotifier{}).Send(testEvent()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
