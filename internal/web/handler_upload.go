package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmaraschin/medidor/internal/apperr"
	"github.com/dmaraschin/medidor/internal/domain"
	"github.com/dmaraschin/medidor/internal/service"
)

// maxUploadBody bounds the request body; a base64 data URI of a meter photo
// comfortably fits well below this.
const maxUploadBody = 50 * 1024 * 1024

var validate = validator.New()

// dataURIPattern matches "data:image/<format>;base64,<payload>".
var dataURIPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,(.+)$`)

type uploadRequest struct {
	Image           string `json:"image" validate:"required"`
	CustomerCode    string `json:"customer_code" validate:"required"`
	MeasureDatetime string `json:"measure_datetime" validate:"required"`
	MeasureType     string `json:"measure_type" validate:"required"`
}

type uploadResponse struct {
	Response    uploadPayload `json:"response"`
	Description string        `json:"description"`
}

type uploadPayload struct {
	ImageURL     string `json:"image_url"`
	MeasureValue string `json:"measure_value"`
	MeasureUUID  string `json:"measure_uuid"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(w, r, maxUploadBody, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, apperr.InvalidData("Os dados fornecidos no corpo da requisição são inválidos"))
		return
	}

	measureType := strings.ToUpper(req.MeasureType)
	if !domain.ValidMeasureType(measureType) {
		s.writeError(w, r, apperr.InvalidData("Tipo de medição não permitida"))
		return
	}

	measureDatetime, err := parseDatetime(req.MeasureDatetime)
	if err != nil {
		s.writeError(w, r, apperr.InvalidData("A data da medição é inválida"))
		return
	}

	imageData, mimeType, err := decodeDataURI(req.Image)
	if err != nil {
		s.writeError(w, r, apperr.InvalidData("A imagem deve ser um data URI base64 válido"))
		return
	}

	result, err := s.service.Upload(r.Context(), service.UploadInput{
		Image:           imageData,
		MimeType:        mimeType,
		CustomerCode:    req.CustomerCode,
		MeasureDatetime: measureDatetime,
		MeasureType:     measureType,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, uploadResponse{
		Response: uploadPayload{
			ImageURL:     result.ImageURL,
			MeasureValue: result.MeasureValue,
			MeasureUUID:  result.MeasureUUID,
		},
		Description: "Operação realizada com sucesso",
	})
}

// decodeJSON reads the body into dst, translating decoding failures into the
// wire taxonomy: a field of the wrong primitive type is INVALID_TYPE, any
// other malformed body is INVALID_DATA.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.InvalidType(fmt.Sprintf("O campo %s possui tipo inválido", typeErr.Field))
	}
	return apperr.InvalidData("Os dados fornecidos no corpo da requisição são inválidos")
}

// parseDatetime accepts the timestamp shapes customers actually send:
// RFC 3339, a bare local datetime, or a bare date.
func parseDatetime(raw string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable datetime %q", raw)
}

// decodeDataURI validates the data-URI prefix, decodes the payload and maps
// the declared format to a MIME type the extraction API accepts.
func decodeDataURI(uri string) ([]byte, string, error) {
	match := dataURIPattern.FindStringSubmatch(uri)
	if match == nil {
		return nil, "", fmt.Errorf("not an image data URI")
	}

	format := strings.ToLower(match[1])
	switch format {
	case "jpg":
		format = "jpeg"
	case "jpeg", "png", "gif", "webp":
	default:
		return nil, "", fmt.Errorf("unsupported image format %q", format)
	}

	data, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image payload")
	}

	return data, "image/" + format, nil
}
