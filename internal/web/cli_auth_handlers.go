package web

import (
	"log/slog"
	"net/http"
	"strings"
)

type cliAuthData struct {
	APIKey  string
	Message string
	Error   string
}

// handleCLIAuth serves the CLI login page (GET) and processes the username
// submission (POST).
func (s *Server) handleCLIAuth(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "cli_auth.html", cliAuthData{})
	case http.MethodPost:
		s.submitCLILogin(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) submitCLILogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	successMsg := "If that account exists, a login link has been sent to its email address."

	if username == "" {
		s.render(w, "cli_auth.html", cliAuthData{Error: "Username is required"})
		return
	}

	u, err := s.users.Lookup(username)
	if err != nil {
		slog.Error("looking up user", "err", err)
		s.render(w, "cli_auth.html", cliAuthData{Message: successMsg})
		return
	}

	if u != nil && u.Email != "" {
		token, err := s.tokens.Create(u.Username)
		if err != nil {
			slog.Error("creating token", "err", err)
			s.render(w, "cli_auth.html", cliAuthData{Message: successMsg})
			return
		}

		// Magic link redirects back to /cli/auth/complete after verification
		if _, err := s.mailer.SendCLIMagicLink(u.Email, token); err != nil {
			slog.Error("sending magic link", "err", err)
		}
	}

	s.render(w, "cli_auth.html", cliAuthData{Message: successMsg})
}

// handleCLIAuthVerify validates the magic link token, creates a session,
// then redirects to /cli/auth/complete.
func (s *Server) handleCLIAuthVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.render(w, "cli_auth.html", cliAuthData{Error: "Invalid login link"})
		return
	}

	username, err := s.tokens.Validate(token)
	if err != nil {
		s.render(w, "cli_auth.html", cliAuthData{Error: "Invalid or expired login link. Please try again."})
		return
	}

	if err := s.sessions.Create(w, username); err != nil {
		slog.Error("creating session", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/cli/auth/complete", http.StatusSeeOther)
}

// handleCLIAuthComplete generates an API key and displays it.
// Requires a valid session (user just logged in).
func (s *Server) handleCLIAuthComplete(w http.ResponseWriter, r *http.Request) {
	username, err := s.sessions.Validate(r)
	if err != nil {
		http.Redirect(w, r, "/cli/auth", http.StatusSeeOther)
		return
	}

	rawKey, _, err := s.apiKeys.Create(username, "CLI")
	if err != nil {
		slog.Error("creating api key", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, "cli_auth.html", cliAuthData{APIKey: rawKey})
}
