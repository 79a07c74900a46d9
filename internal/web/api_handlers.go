package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/modelhub-io/modelhub/internal/auth"
	"github.com/modelhub-io/modelhub/internal/comment"
	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/namespace"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// commentErrorStatus maps comment service errors to HTTP status codes.
func commentErrorStatus(err error) int {
	switch {
	case errors.Is(err, comment.ErrInvalidModelID):
		return http.StatusBadRequest
	case errors.Is(err, comment.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, comment.ErrNamespaceNotFound),
		errors.Is(err, comment.ErrModelNotFound),
		errors.Is(err, comment.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleAPIModels routes /api/models requests.
func (s *Server) handleAPIModels(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/models")
	path = strings.TrimPrefix(path, "/")

	// /api/models, list or add
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListModels(w, r)
		case http.MethodPost:
			s.apiAddModel(w, r)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/models/{id}/comments
	if strings.HasSuffix(path, "/comments") {
		modelID := strings.TrimSuffix(path, "/comments")
		switch r.Method {
		case http.MethodGet:
			s.apiListComments(w, modelID)
		case http.MethodPost:
			s.apiAddComment(w, r, modelID)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/models/{id}, show or remove
	switch r.Method {
	case http.MethodGet:
		s.apiGetModel(w, path)
	case http.MethodDelete:
		s.apiDeleteModel(w, r, path)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiListModels returns catalog models, optionally filtered by namespace.
func (s *Server) apiListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.catalog.List(r.URL.Query().Get("namespace"))
	if err != nil {
		apiError(w, fmt.Sprintf("listing models: %v", err), http.StatusInternalServerError)
		return
	}
	if models == nil {
		models = make([]*model.Info, 0)
	}
	apiJSON(w, models, http.StatusOK)
}

// apiAddModel registers a model in the catalog. The caller becomes the
// model's author and needs a creator role in the namespace.
func (s *Server) apiAddModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModelID     string `json:"model_id"`
		Visibility  string `json:"visibility"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	id, err := model.ParseID(req.ModelID)
	if err != nil {
		apiError(w, fmt.Sprintf("invalid model ID: %v", err), http.StatusBadRequest)
		return
	}

	username := auth.UsernameFrom(r.Context())
	allowed, err := s.mayManageModels(username, id.Namespace, namespace.RoleModelCreator)
	if err != nil {
		apiError(w, fmt.Sprintf("checking permissions: %v", err), http.StatusInternalServerError)
		return
	}
	if !allowed {
		apiError(w, "not permitted to create models in this namespace", http.StatusForbidden)
		return
	}

	workspaceID, err := s.namespaces.ResolveWorkspace(id.Namespace)
	if err != nil {
		if errors.Is(err, namespace.ErrNotFound) {
			apiError(w, fmt.Sprintf("namespace %s not found", id.Namespace), http.StatusNotFound)
			return
		}
		apiError(w, fmt.Sprintf("resolving namespace: %v", err), http.StatusInternalServerError)
		return
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}

	info, err := s.catalog.Create(id, username, visibility, req.Description, workspaceID)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			apiError(w, err.Error(), http.StatusConflict)
			return
		}
		apiError(w, fmt.Sprintf("creating model: %v", err), http.StatusBadRequest)
		return
	}

	apiJSON(w, info, http.StatusCreated)
}

// apiGetModel returns a single model with its comments.
func (s *Server) apiGetModel(w http.ResponseWriter, modelID string) {
	id, err := model.ParseID(modelID)
	if err != nil {
		apiError(w, fmt.Sprintf("invalid model ID: %v", err), http.StatusBadRequest)
		return
	}

	info, err := s.lookupModel(id)
	if err != nil {
		apiError(w, "model not found", http.StatusNotFound)
		return
	}

	comments, err := s.comments.GetCommentsForModel(id.String())
	if err != nil {
		apiError(w, fmt.Sprintf("loading comments: %v", err), http.StatusInternalServerError)
		return
	}
	if comments == nil {
		comments = make([]*comment.Comment, 0)
	}

	type response struct {
		Model    *model.Info        `json:"model"`
		Comments []*comment.Comment `json:"comments"`
	}
	apiJSON(w, response{Model: info, Comments: comments}, http.StatusOK)
}

// apiDeleteModel removes a model from the catalog. Namespace admins and
// sysadmins only.
func (s *Server) apiDeleteModel(w http.ResponseWriter, r *http.Request, modelID string) {
	id, err := model.ParseID(modelID)
	if err != nil {
		apiError(w, fmt.Sprintf("invalid model ID: %v", err), http.StatusBadRequest)
		return
	}

	username := auth.UsernameFrom(r.Context())
	allowed, err := s.mayManageModels(username, id.Namespace, namespace.RoleNamespaceAdmin)
	if err != nil {
		apiError(w, fmt.Sprintf("checking permissions: %v", err), http.StatusInternalServerError)
		return
	}
	if !allowed {
		apiError(w, "not permitted to delete models in this namespace", http.StatusForbidden)
		return
	}

	if err := s.catalog.Delete(id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			apiError(w, "model not found", http.StatusNotFound)
			return
		}
		apiError(w, fmt.Sprintf("deleting model: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id.String(), "removed": true}, http.StatusOK)
}

// mayManageModels reports whether username is a sysadmin, a namespace admin,
// or holds the given role in the namespace.
func (s *Server) mayManageModels(username, ns, role string) (bool, error) {
	sysadmin, err := s.roles.IsSysadmin(username)
	if err != nil {
		return false, err
	}
	if sysadmin {
		return true, nil
	}

	admin, err := s.roles.HasRole(username, ns, namespace.RoleNamespaceAdmin)
	if err != nil {
		if errors.Is(err, namespace.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if admin {
		return true, nil
	}

	has, err := s.roles.HasRole(username, ns, role)
	if err != nil {
		if errors.Is(err, namespace.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return has, nil
}

// lookupModel resolves a model ID through its namespace's workspace.
func (s *Server) lookupModel(id model.ID) (*model.Info, error) {
	workspaceID, err := s.namespaces.ResolveWorkspace(id.Namespace)
	if err != nil {
		return nil, err
	}
	return s.factory.RepositoryFor(workspaceID).GetByID(id)
}

// apiListComments returns comments on a model.
func (s *Server) apiListComments(w http.ResponseWriter, modelID string) {
	comments, err := s.comments.GetCommentsForModel(modelID)
	if err != nil {
		apiError(w, err.Error(), commentErrorStatus(err))
		return
	}
	if comments == nil {
		comments = make([]*comment.Comment, 0)
	}
	apiJSON(w, comments, http.StatusOK)
}

// apiAddComment creates a comment on a model as the authenticated user.
func (s *Server) apiAddComment(w http.ResponseWriter, r *http.Request, modelID string) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		apiError(w, "content is required", http.StatusBadRequest)
		return
	}

	username := auth.UsernameFrom(r.Context())
	c, err := s.comments.CreateComment(username, comment.CreateRequest{
		ModelID: modelID,
		Content: strings.TrimSpace(req.Content),
	})
	if err != nil {
		apiError(w, err.Error(), commentErrorStatus(err))
		return
	}

	apiJSON(w, c, http.StatusCreated)
}

// handleAPIComments routes /api/comments requests.
func (s *Server) handleAPIComments(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/comments")
	path = strings.TrimPrefix(path, "/")

	// /api/comments?author=name
	if path == "" {
		if r.Method != http.MethodGet {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		author := r.URL.Query().Get("author")
		if author == "" {
			author = auth.UsernameFrom(r.Context())
		}
		comments, err := s.comments.GetCommentsByAuthor(author)
		if err != nil {
			apiError(w, fmt.Sprintf("listing comments: %v", err), http.StatusInternalServerError)
			return
		}
		if comments == nil {
			comments = make([]*comment.Comment, 0)
		}
		apiJSON(w, comments, http.StatusOK)
		return
	}

	// /api/comments/{id}
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid comment ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodDelete {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username := auth.UsernameFrom(r.Context())
	deleted, err := s.comments.DeleteComment(username, id)
	if err != nil {
		apiError(w, err.Error(), commentErrorStatus(err))
		return
	}

	// A denied delete is a normal outcome, not an error.
	apiJSON(w, map[string]interface{}{"id": id, "deleted": deleted}, http.StatusOK)
}

// handleAPINamespaces routes /api/namespaces requests.
func (s *Server) handleAPINamespaces(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		namespaces, err := s.namespaces.List()
		if err != nil {
			apiError(w, fmt.Sprintf("listing namespaces: %v", err), http.StatusInternalServerError)
			return
		}
		if namespaces == nil {
			namespaces = make([]*namespace.Namespace, 0)
		}
		apiJSON(w, namespaces, http.StatusOK)
	case http.MethodPost:
		username := auth.UsernameFrom(r.Context())
		sysadmin, err := s.roles.IsSysadmin(username)
		if err != nil {
			apiError(w, fmt.Sprintf("checking permissions: %v", err), http.StatusInternalServerError)
			return
		}
		if !sysadmin {
			apiError(w, "only sysadmins can register namespaces", http.StatusForbidden)
			return
		}

		var req struct {
			Name        string `json:"name"`
			WorkspaceID string `json:"workspace_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		ns, err := s.namespaces.Create(req.Name, req.WorkspaceID)
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				apiError(w, err.Error(), http.StatusConflict)
				return
			}
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, ns, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
