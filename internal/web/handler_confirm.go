package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmaraschin/medidor/internal/apperr"
)

// maxConfirmBody bounds the confirm request body; it only carries a uuid and
// a number.
const maxConfirmBody = 4 * 1024

type confirmRequest struct {
	MeasureUUID    string `json:"measure_uuid" validate:"required"`
	ConfirmedValue *int64 `json:"confirmed_value" validate:"required"`
}

type confirmResponse struct {
	Description string `json:"description"`
	Success     bool   `json:"success"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(w, r, maxConfirmBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, apperr.InvalidData("Os dados fornecidos no corpo da requisição são inválidos"))
		return
	}
	if _, err := uuid.Parse(req.MeasureUUID); err != nil {
		s.writeError(w, r, apperr.InvalidData("O identificador da leitura não é um UUID válido"))
		return
	}

	if err := s.service.Confirm(r.Context(), req.MeasureUUID, *req.ConfirmedValue); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, confirmResponse{
		Description: "Operação realizada com sucesso",
		Success:     true,
	})
}
