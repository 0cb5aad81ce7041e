// Package apperr defines the coded business errors returned by the
// measurement workflows. The web layer maps them to an HTTP status and a
// JSON body of the form {"error_code": ..., "error_description": ...};
// descriptions are in Portuguese, matching the public API contract.
package apperr

import (
	"fmt"
	"net/http"
)

// Error codes exposed on the wire.
const (
	CodeInvalidType           = "INVALID_TYPE"
	CodeInvalidData           = "INVALID_DATA"
	CodeDoubleReport          = "DOUBLE_REPORT"
	CodeMeasureNotFound       = "MEASURE_NOT_FOUND"
	CodeMeasuresNotFound      = "MEASURES_NOT_FOUND"
	CodeConfirmationDuplicate = "CONFIRMATION_DUPLICATE"
	CodeServerError           = "SERVER_ERROR"
)

type Error struct {
	Code        string
	Status      int
	Description string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidType signals a request field with the wrong primitive type.
func InvalidType(description string) *Error {
	return &Error{Code: CodeInvalidType, Status: http.StatusBadRequest, Description: description}
}

// InvalidData signals a request field that fails semantic validation, an
// unreadable image, or a non-numeric extraction result.
func InvalidData(description string) *Error {
	return &Error{Code: CodeInvalidData, Status: http.StatusBadRequest, Description: description}
}

// DoubleReport signals that a reading already exists for the customer,
// type and calendar month.
func DoubleReport() *Error {
	return &Error{Code: CodeDoubleReport, Status: http.StatusConflict, Description: "Leitura do mês já realizada"}
}

// MeasureNotFound signals a confirmation against an unknown id.
func MeasureNotFound() *Error {
	return &Error{Code: CodeMeasureNotFound, Status: http.StatusNotFound, Description: "Leitura não encontrada"}
}

// MeasuresNotFound signals a listing that matched zero readings.
func MeasuresNotFound() *Error {
	return &Error{Code: CodeMeasuresNotFound, Status: http.StatusNotFound, Description: "Nenhuma leitura encontrada"}
}

// ConfirmationDuplicate signals a second confirmation attempt on an
// already-confirmed reading.
func ConfirmationDuplicate() *Error {
	return &Error{Code: CodeConfirmationDuplicate, Status: http.StatusConflict, Description: "Leitura já confirmada"}
}
