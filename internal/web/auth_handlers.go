package web

import (
	"log/slog"
	"net/http"
	"strings"
)

type loginData struct {
	Message string
	Error   string
}

// handleLoginPage renders the login form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", loginData{})
}

// handleLoginSubmit processes the username form submission.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))

	// Always show the same message regardless of whether the account exists.
	// This prevents account enumeration.
	successMsg := "If that account exists, a login link has been sent to its email address."

	if username == "" {
		s.render(w, "login.html", loginData{Error: "Username is required"})
		return
	}

	u, err := s.users.Lookup(username)
	if err != nil {
		slog.Error("looking up user", "err", err)
		s.render(w, "login.html", loginData{Message: successMsg})
		return
	}

	// Only send a real token for known accounts with an email address
	if u != nil && u.Email != "" {
		token, err := s.tokens.Create(u.Username)
		if err != nil {
			slog.Error("creating token", "err", err)
			s.render(w, "login.html", loginData{Message: successMsg})
			return
		}

		if _, err := s.mailer.SendMagicLink(u.Email, token); err != nil {
			slog.Error("sending magic link", "err", err)
		}
	}

	s.render(w, "login.html", loginData{Message: successMsg})
}

// handleVerify validates a magic link token and creates a session.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.render(w, "login.html", loginData{Error: "Invalid login link"})
		return
	}

	username, err := s.tokens.Validate(token)
	if err != nil {
		s.render(w, "login.html", loginData{Error: "Invalid or expired login link. Please request a new one."})
		return
	}

	if err := s.sessions.Create(w, username); err != nil {
		slog.Error("creating session", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout destroys the session and redirects to login.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(w, r); err != nil {
		slog.Error("destroying session", "err", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
