package comment

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelhub-io/modelhub/internal/model"
	"github.com/modelhub-io/modelhub/internal/namespace"
	"github.com/modelhub-io/modelhub/internal/notify"
	"github.com/modelhub-io/modelhub/internal/user"
)

// Sentinel errors surfaced by the service. Handlers map these to status
// codes with errors.Is.
var (
	ErrInvalidModelID    = errors.New("invalid model ID")
	ErrForbidden         = errors.New("operation forbidden")
	ErrNamespaceNotFound = errors.New("namespace not found")
	ErrModelNotFound     = errors.New("model not found")
	ErrNotFound          = errors.New("comment not found")
)

// Store is the comment persistence the service depends on.
type Store interface {
	Save(c *Comment) (*Comment, error)
	Delete(id int64) error
	FindOne(id int64) (*Comment, error)
	FindByModelID(modelID string) ([]*Comment, error)
	FindByAuthor(author string) ([]*Comment, error)
}

// WorkspaceResolver maps a namespace to its backing workspace.
type WorkspaceResolver interface {
	ResolveWorkspace(ns string) (string, error)
}

// ModelRepository reads model metadata from one workspace.
type ModelRepository interface {
	Exists(id model.ID) (bool, error)
	GetByID(id model.ID) (*model.Info, error)
}

// ModelRepositoryFactory hands out per-workspace model repositories.
type ModelRepositoryFactory interface {
	RepositoryFor(workspaceID string) ModelRepository
}

// FactoryFunc adapts a function to a ModelRepositoryFactory.
type FactoryFunc func(workspaceID string) ModelRepository

// RepositoryFor calls f.
func (f FactoryFunc) RepositoryFor(workspaceID string) ModelRepository {
	return f(workspaceID)
}

// RoleChecker answers role-membership questions.
type RoleChecker interface {
	HasRole(username, ns, role string) (bool, error)
	HasAnyRole(username, ns string) (bool, error)
	IsSysadmin(username string) (bool, error)
}

// UserLookup resolves a username to an account, (nil, nil) when absent.
type UserLookup interface {
	Lookup(username string) (*user.User, error)
}

// Service orchestrates comment creation and deletion: authorization,
// persistence, and notification fan-out.
type Service struct {
	store      Store
	workspaces WorkspaceResolver
	models     ModelRepositoryFactory
	roles      RoleChecker
	users      UserLookup
	notifier   notify.Notifier
	now        func() time.Time
}

// NewService creates a comment service.
func NewService(store Store, workspaces WorkspaceResolver, models ModelRepositoryFactory, roles RoleChecker, users UserLookup, notifier notify.Notifier) *Service {
	return &Service{
		store:      store,
		workspaces: workspaces,
		models:     models,
		roles:      roles,
		users:      users,
		notifier:   notifier,
		now:        time.Now,
	}
}

// CreateRequest carries a comment creation intent.
type CreateRequest struct {
	ModelID string `json:"model_id"`
	Content string `json:"content"`
}

// CreateComment creates a comment by username on the model named in req,
// then notifies the model author and every prior commenter. Notification
// failures never fail the create.
func (s *Service) CreateComment(username string, req CreateRequest) (*Comment, error) {
	id, err := model.ParseID(req.ModelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelID, err)
	}

	candidate := &Comment{
		ModelID: id.String(),
		Author:  username,
		Content: req.Content,
	}

	allowed, err := s.CanCreate(username, candidate)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("user %s cannot create a comment for model %s: %w", username, id, ErrForbidden)
	}

	workspaceID, err := s.workspaces.ResolveWorkspace(id.Namespace)
	if err != nil {
		if errors.Is(err, namespace.ErrNotFound) {
			return nil, fmt.Errorf("namespace %s: %w", id.Namespace, ErrNamespaceNotFound)
		}
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}

	repo := s.models.RepositoryFor(workspaceID)

	exists, err := repo.Exists(id)
	if err != nil {
		return nil, fmt.Errorf("checking model: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("model %s: %w", id, ErrModelNotFound)
	}

	candidate.Date = formatDate(s.now())
	saved, err := s.store.Save(candidate)
	if err != nil {
		return nil, fmt.Errorf("saving comment: %w", err)
	}

	info, err := repo.GetByID(id)
	if err != nil {
		// The comment is persisted; notification is best-effort.
		slog.Warn("skipping notification, cannot load model metadata",
			"model", id.String(), "error", err)
		return saved, nil
	}

	s.notifyCommentAuthors(saved, info)

	return saved, nil
}

// DeleteComment deletes a comment if username is permitted to. Denial is a
// normal outcome reported as (false, nil); only an unknown id is an error.
func (s *Service) DeleteComment(username string, id int64) (bool, error) {
	c, err := s.store.FindOne(id)
	if err != nil {
		return false, fmt.Errorf("loading comment: %w", err)
	}
	if c == nil {
		return false, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}

	allowed, err := s.CanDelete(username, c)
	if err != nil {
		return false, err
	}
	if !allowed {
		slog.Warn("user cannot delete comment", "user", username, "id", id)
		return false, nil
	}

	if err := s.store.Delete(id); err != nil {
		return false, fmt.Errorf("deleting comment: %w", err)
	}

	return true, nil
}

// GetCommentsForModel returns all comments on a model.
func (s *Service) GetCommentsForModel(modelID string) ([]*Comment, error) {
	id, err := model.ParseID(modelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelID, err)
	}
	return s.store.FindByModelID(id.String())
}

// GetCommentsByAuthor returns all comments written by author.
func (s *Service) GetCommentsByAuthor(author string) ([]*Comment, error) {
	return s.store.FindByAuthor(author)
}

// CanCreate reports whether username may create the candidate comment.
// Checked in order: sysadmin, any role in the model's namespace, model is
// public. A failed role or metadata lookup denies rather than erroring; only
// a malformed model ID is reported as an error.
func (s *Service) CanCreate(username string, c *Comment) (bool, error) {
	id, err := model.ParseID(c.ModelID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidModelID, err)
	}

	if sysadmin, err := s.roles.IsSysadmin(username); err != nil {
		return false, nil
	} else if sysadmin {
		return true, nil
	}

	if any, err := s.roles.HasAnyRole(username, id.Namespace); err != nil {
		return false, nil
	} else if any {
		return true, nil
	}

	// Visibility needs the model metadata, so it is checked last.
	workspaceID, err := s.workspaces.ResolveWorkspace(id.Namespace)
	if err != nil {
		return false, nil
	}
	info, err := s.models.RepositoryFor(workspaceID).GetByID(id)
	if err != nil {
		return false, nil
	}
	return info.IsPublic(), nil
}

// CanDelete reports whether username may delete the comment: its author
// always may, otherwise a namespace admin or a sysadmin. A failed role
// lookup denies; a malformed stored model ID is a data-integrity error and
// is reported to the caller.
func (s *Service) CanDelete(username string, c *Comment) (bool, error) {
	id, err := model.ParseID(c.ModelID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidModelID, err)
	}

	if username == c.Author {
		return true, nil
	}

	if admin, err := s.roles.HasRole(username, id.Namespace, namespace.RoleNamespaceAdmin); err != nil {
		return false, nil
	} else if admin {
		return true, nil
	}

	sysadmin, err := s.roles.IsSysadmin(username)
	if err != nil {
		return false, nil
	}
	return sysadmin, nil
}

// notifyCommentAuthors sends one reply notification to the model's author
// and each distinct author of a comment on the model, excluding the
// anonymous placeholder. The scan includes the comment just created.
func (s *Service) notifyCommentAuthors(c *Comment, info *model.Info) {
	recipients := map[string]struct{}{
		info.Author: {},
	}

	existing, err := s.store.FindByModelID(c.ModelID)
	if err != nil {
		slog.Warn("listing comments for notification", "model", c.ModelID, "error", err)
	}
	for _, prior := range existing {
		recipients[prior.Author] = struct{}{}
	}

	for name := range recipients {
		if user.IsAnonymous(name) {
			continue
		}

		u, err := s.users.Lookup(name)
		if err != nil {
			slog.Warn("looking up notification recipient", "user", name, "error", err)
			continue
		}
		if u == nil {
			continue
		}

		ev := notify.CommentReply{Recipient: *u, Model: *info, Content: c.Content}
		if err := s.notifier.Send(ev); err != nil {
			slog.Warn("sending notification", "user", name, "error", err)
		}
	}
}
