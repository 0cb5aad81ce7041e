package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmaraschin/medidor/internal/apperr"
	"github.com/dmaraschin/medidor/internal/domain"
)

type listResponse struct {
	CustomerCode string        `json:"customer_code"`
	Measures     []measureItem `json:"measures"`
}

type measureItem struct {
	MeasureUUID     string `json:"measure_uuid"`
	MeasureDatetime string `json:"measure_datetime"`
	MeasureType     string `json:"measure_type"`
	MeasureValue    int64  `json:"measure_value"`
	HasConfirmed    bool   `json:"has_confirmed"`
	ImageURL        string `json:"image_url"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	customerCode := r.PathValue("customer_code")

	measureType := ""
	if raw := r.URL.Query().Get("measure_type"); raw != "" {
		measureType = strings.ToUpper(raw)
		if !domain.ValidMeasureType(measureType) {
			s.writeError(w, r, apperr.InvalidData("Tipo de medição não permitida"))
			return
		}
	}

	measurements, err := s.service.List(r.Context(), customerCode, measureType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items := make([]measureItem, 0, len(measurements))
	for _, m := range measurements {
		items = append(items, measureItem{
			MeasureUUID:     m.ID,
			MeasureDatetime: m.MeasureDatetime.UTC().Format(time.RFC3339),
			MeasureType:     m.MeasureType,
			MeasureValue:    m.MeasureValue,
			HasConfirmed:    m.HasConfirmed,
			ImageURL:        m.ImageURL,
		})
	}

	s.writeJSON(w, http.StatusOK, listResponse{
		CustomerCode: customerCode,
		Measures:     items,
	})
}
