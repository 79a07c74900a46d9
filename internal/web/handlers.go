package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/modelhub-io/modelhub/internal/comment"
	"github.com/modelhub-io/modelhub/internal/model"
)

type listData struct {
	Models     []*model.Info
	Namespace  string
	Namespaces []string
	Username   string
}

type detailData struct {
	Model    *model.Info
	Comments []*comment.Comment
	Username string
	Error    string
}

// handleList renders the model catalog page.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	ns := r.URL.Query().Get("namespace")
	models, err := s.catalog.List(ns)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading models: %v", err), http.StatusInternalServerError)
		return
	}

	all, err := s.namespaces.List()
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading namespaces: %v", err), http.StatusInternalServerError)
		return
	}
	names := make([]string, len(all))
	for i, n := range all {
		names[i] = n.Name
	}

	username, _ := s.sessions.Validate(r)
	s.render(w, "list.html", listData{
		Models:     models,
		Namespace:  ns,
		Namespaces: names,
		Username:   username,
	})
}

// handleDetail renders the model detail page with its comment thread.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	modelID := strings.TrimPrefix(r.URL.Path, "/model/")

	id, err := model.ParseID(modelID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	info, err := s.lookupModel(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	comments, err := s.comments.GetCommentsForModel(id.String())
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading comments: %v", err), http.StatusInternalServerError)
		return
	}

	username, _ := s.sessions.Validate(r)
	s.render(w, "detail.html", detailData{Model: info, Comments: comments, Username: username})
}

// handleCommentPost adds a comment via form POST.
func (s *Server) handleCommentPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	modelID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/model/"), "/comment")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		http.Error(w, "Comment content is required", http.StatusBadRequest)
		return
	}

	username, err := s.sessions.Validate(r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if _, err := s.comments.CreateComment(username, comment.CreateRequest{
		ModelID: modelID,
		Content: content,
	}); err != nil {
		http.Error(w, fmt.Sprintf("Error adding comment: %v", err), commentErrorStatus(err))
		return
	}

	http.Redirect(w, r, "/model/"+modelID, http.StatusSeeOther)
}

// handleCommentDelete deletes a comment via form POST.
func (s *Server) handleCommentDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	modelID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/model/"), "/comment/delete")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	username, err := s.sessions.Validate(r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if _, err := s.comments.DeleteComment(username, id); err != nil {
		http.Error(w, fmt.Sprintf("Error deleting comment: %v", err), commentErrorStatus(err))
		return
	}

	http.Redirect(w, r, "/model/"+modelID, http.StatusSeeOther)
}

// handleSettings renders the settings page with passkey and API key management.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	username, err := s.sessions.Validate(r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	stored, err := s.passkeys.ListByUser(username)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error loading passkeys: %v", err), http.StatusInternalServerError)
		return
	}

	type passkeyItem struct {
		ID   string
		Name string
	}
	type settingsData struct {
		Username string
		Passkeys []passkeyItem
	}

	passkeys := make([]passkeyItem, len(stored))
	for i, sc := range stored {
		passkeys[i] = passkeyItem{ID: sc.ID, Name: sc.Name}
	}

	s.render(w, "settings.html", settingsData{Username: username, Passkeys: passkeys})
}

// handlePasskeyDelete removes a passkey credential from the settings page.
func (s *Server) handlePasskeyDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username, err := s.sessions.Validate(r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "Missing credential ID", http.StatusBadRequest)
		return
	}

	if err := s.passkeys.Delete(id, username); err != nil {
		http.Error(w, fmt.Sprintf("Error deleting passkey: %v", err), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// render executes a full page template.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
	}
}
