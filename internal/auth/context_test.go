package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"circlegov/internal/domain"
)

func TestWorkspaceScopeRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := ContextWithWorkspaceID(context.Background(), id)

	got, ok := WorkspaceIDFromContext(ctx)
	if !ok {
		t.Fatal("expected workspace scope in context")
	}
	if got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
}

func TestEnforceWorkspaceScope(t *testing.T) {
	id := uuid.New()
	scoped := ContextWithWorkspaceID(context.Background(), id)

	if err := EnforceWorkspaceScope(scoped, id); err != nil {
		t.Errorf("matching scope should pass, got %v", err)
	}
	if err := EnforceWorkspaceScope(context.Background(), id); err != nil {
		t.Errorf("unscoped context should pass, got %v", err)
	}

	err := EnforceWorkspaceScope(scoped, uuid.New())
	if !domain.IsCode(err, domain.CodeWorkspaceAccessDenied) {
		t.Errorf("expected WORKSPACE_ACCESS_DENIED, got %v", err)
	}

	err = EnforceWorkspaceScope(scoped, uuid.Nil)
	if !domain.IsCode(err, domain.CodeValidationRequiredField) {
		t.Errorf("expected VALIDATION_REQUIRED_FIELD, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	id := uuid.New()
	var got uuid.UUID
	var ok bool
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = WorkspaceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(WorkspaceHeader, id.String())
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got != id {
		t.Errorf("expected scope %s, got %s (ok=%v)", id, got, ok)
	}
}

func TestMiddlewareRejectsBadHeader(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(WorkspaceHeader, "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
