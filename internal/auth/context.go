// Package auth carries the authenticated workspace scope through
// request contexts. A gateway or reverse proxy may pin a request to
// one workspace via the X-Workspace-Id header; handlers then reject
// calls that address a different workspace.
package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"circlegov/internal/domain"
)

type contextKey string

const workspaceIDKey contextKey = "workspaceID"

// WorkspaceHeader pins a request to one workspace when set.
const WorkspaceHeader = "X-Workspace-Id"

// ContextWithWorkspaceID returns a new context that carries the authenticated workspace scope.
func ContextWithWorkspaceID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, workspaceIDKey, id)
}

// WorkspaceIDFromContext retrieves the authenticated workspace scope from the context, if any.
func WorkspaceIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	value := ctx.Value(workspaceIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// EnforceWorkspaceScope ensures the provided workspace matches the authenticated scope when present.
func EnforceWorkspaceScope(ctx context.Context, workspaceID uuid.UUID) error {
	if workspaceID == uuid.Nil {
		return domain.NewError(domain.CodeValidationRequiredField, "workspaceId is required")
	}
	scopedID, ok := WorkspaceIDFromContext(ctx)
	if !ok {
		return nil
	}
	if scopedID != workspaceID {
		return domain.NewErrorf(domain.CodeWorkspaceAccessDenied, "workspace %s does not match authenticated scope", workspaceID)
	}
	return nil
}

// Middleware copies the workspace scope header into the request
// context. Requests without the header stay unscoped.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(WorkspaceHeader); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "invalid "+WorkspaceHeader+" header", http.StatusBadRequest)
				return
			}
			r = r.WithContext(ContextWithWorkspaceID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
