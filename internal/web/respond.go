package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmaraschin/medidor/internal/apperr"
)

type errorBody struct {
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// writeError maps business errors to their status and wire body; anything
// else is an unexpected failure and becomes an opaque 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		s.logger.Info("request rejected",
			"path", r.URL.Path,
			"error_code", appErr.Code,
			"status", appErr.Status,
		)
		s.writeJSON(w, appErr.Status, errorBody{
			ErrorCode:        appErr.Code,
			ErrorDescription: appErr.Description,
		})
		return
	}

	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorBody{
		ErrorCode:        apperr.CodeServerError,
		ErrorDescription: "Erro interno do servidor",
	})
}
