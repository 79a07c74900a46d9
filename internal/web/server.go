// Package web provides the HTTP server and handlers for the model registry
// web UI and JSON API.
package web

import (
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelhub-io/modelhub/internal/auth"
	"github.com/modelhub-io/modelhub/internal/comment"
	"github.com/modelhub-io/modelhub/internal/logging"
	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/namespace"
	"github.com/modelhub-io/modelhub/internal/notify"
	"github.com/modelhub-io/modelhub/internal/user"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the registry HTTP server.
type Server struct {
	comments    *comment.Service
	commentRepo *comment.Repository
	catalog     *model.Store
	factory     *model.Factory
	namespaces  *namespace.Service
	users       *user.Store
	roles       *namespace.RoleStore

	config   auth.Config
	tokens   *auth.TokenStore
	sessions *auth.SessionStore
	apiKeys  *auth.APIKeyStore
	passkeys *auth.PasskeyStore
	mailer   *auth.Mailer

	templates *template.Template
	mux       *http.ServeMux
}

// NewServer creates a web server over the given database.
func NewServer(db *sql.DB, cfg auth.Config) (*Server, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	commentRepo := comment.NewRepository(db)
	namespaces := namespace.NewService(db)
	roles := namespace.NewRoleStore(db)
	users := user.NewStore(db)
	factory := model.NewFactory(db)

	// Bootstrap the configured admin account so a fresh database has a
	// sysadmin who can register namespaces and promote other users.
	if cfg.AdminUser != "" {
		existing, err := users.Lookup(cfg.AdminUser)
		if err != nil {
			return nil, fmt.Errorf("looking up admin user: %w", err)
		}
		if existing == nil {
			if _, err := users.Add(cfg.AdminUser, "", true); err != nil {
				return nil, fmt.Errorf("creating admin user: %w", err)
			}
			slog.Info("created admin user", "username", cfg.AdminUser)
		}
	}

	smtpCfg := notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	var notifier notify.Notifier
	if smtpCfg.IsConfigured() && !cfg.DevMode {
		notifier = notify.NewSMTPNotifier(smtpCfg)
	} else {
		notifier = notify.LogNotifier{}
	}

	comments := comment.NewService(
		commentRepo,
		namespaces,
		comment.FactoryFunc(func(ws string) comment.ModelRepository { return factory.RepositoryFor(ws) }),
		roles,
		users,
		notifier,
	)

	s := &Server{
		comments:    comments,
		commentRepo: commentRepo,
		catalog:     model.NewStore(db),
		factory:     factory,
		namespaces:  namespaces,
		users:       users,
		roles:       roles,
		config:      cfg,
		tokens:      auth.NewTokenStore(db),
		sessions:    auth.NewSessionStore(db),
		apiKeys:     auth.NewAPIKeyStore(db),
		passkeys:    auth.NewPasskeyStore(db),
		mailer:      auth.NewMailer(cfg),
		templates:   tmpl,
		mux:         http.NewServeMux(),
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	passkeys, err := newPasskeyHandlers(cfg, s.passkeys, s.sessions, users)
	if err != nil {
		return nil, fmt.Errorf("configuring passkeys: %w", err)
	}
	apikeys := &apikeyHandlers{apiKeys: s.apiKeys, sessions: s.sessions}

	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.mux.HandleFunc("/", s.handleList)
	s.mux.HandleFunc("/model/", s.handleModelRoute)
	s.mux.HandleFunc("/settings", s.handleSettings)
	s.mux.HandleFunc("/settings/passkeys/delete", s.handlePasskeyDelete)

	s.mux.HandleFunc("/login", s.handleLoginPage)
	s.mux.HandleFunc("/auth/login", s.handleLoginSubmit)
	s.mux.HandleFunc("/auth/verify", s.handleVerify)
	s.mux.HandleFunc("/auth/logout", s.handleLogout)

	s.mux.HandleFunc("/cli/auth", s.handleCLIAuth)
	s.mux.HandleFunc("/cli/auth/verify", s.handleCLIAuthVerify)
	s.mux.HandleFunc("/cli/auth/complete", s.handleCLIAuthComplete)

	s.mux.HandleFunc("/passkey/register/begin", passkeys.handleBeginRegistration)
	s.mux.HandleFunc("/passkey/register/finish", passkeys.handleFinishRegistration)
	s.mux.HandleFunc("/passkey/login/begin", passkeys.handleBeginLogin)
	s.mux.HandleFunc("/passkey/login/finish", passkeys.handleFinishLogin)

	s.mux.HandleFunc("/api/models", s.handleAPIModels)
	s.mux.HandleFunc("/api/models/", s.handleAPIModels)
	s.mux.HandleFunc("/api/namespaces", s.handleAPINamespaces)
	s.mux.HandleFunc("/api/comments", s.handleAPIComments)
	s.mux.HandleFunc("/api/comments/", s.handleAPIComments)
	s.mux.HandleFunc("/api/keys", apikeys.handleAPIKeysRoute)
	s.mux.HandleFunc("/api/keys/", apikeys.handleAPIKeysRoute)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server wrapped in session and API key auth.
func (s *Server) Handler() http.Handler {
	return auth.RequireAuth(s.sessions, auth.RequireAPIKey(s.apiKeys, s.sessions, s.mux))
}

// ListenAndServe starts the HTTP server with auth and request logging applied.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting ModelHub on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, logging.RequestLogger(s.Handler()))
}

// handleModelRoute routes /model/{id}/* requests.
func (s *Server) handleModelRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/model/")

	if strings.HasSuffix(path, "/comment") {
		s.handleCommentPost(w, r)
		return
	}
	if strings.HasSuffix(path, "/comment/delete") {
		s.handleCommentDelete(w, r)
		return
	}

	s.handleDetail(w, r)
}
