package api

import (
	"net/http"

	"circlegov/internal/auth"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) exportWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := auth.EnforceWorkspaceScope(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	workbook, err := h.exports.ExportWorkspace(r.Context(), sessionToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+workbook.FileName+`"`)
	if err := workbook.File.Write(w); err != nil {
		h.log.Error().Err(err).Msg("failed to stream export workbook")
	}
}
