package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"circlegov/internal/domain"
)

type errorBody struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// writeError maps coded domain errors onto HTTP statuses. Errors that
// carry no code are treated as internal.
func writeError(w http.ResponseWriter, err error) {
	var coded *domain.Error
	if !errors.As(err, &coded) {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Code:    domain.CodeGenericError,
			Message: "internal error",
		})
		return
	}
	writeJSON(w, statusForCode(coded.Code), errorBody{Code: coded.Code, Message: coded.Message})
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeSessionNotFound, domain.CodeSessionExpired:
		return http.StatusUnauthorized
	case domain.CodeWorkspaceAccessDenied, domain.CodeProposalAccessDenied:
		return http.StatusForbidden
	case domain.CodePersonNotFound, domain.CodeCircleNotFound, domain.CodeRoleNotFound,
		domain.CodeMeetingNotFound, domain.CodeProposalNotFound:
		return http.StatusNotFound
	case domain.CodeProposalInvalidState, domain.CodeProposalWorkspaceMismatch, domain.CodeMeetingCircleMismatch:
		return http.StatusConflict
	case domain.CodeValidationRequiredField:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
