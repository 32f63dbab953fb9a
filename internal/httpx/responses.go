package httpx

import (
	"encoding/json"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"booklibrary/internal/platform/validate"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool          `json:"success"`
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
	Meta    interface{}   `json:"meta,omitempty"`
}

type ErrorDetail = validate.FieldError

func buildMeta(r *http.Request, customMeta map[string]any) interface{} {
	requestID := ""
	if r != nil {
		requestID = RequestIDFrom(r)
	}
	if requestID == "" && len(customMeta) == 0 {
		return nil
	}
	meta := make(map[string]interface{}, len(customMeta)+1)
	if requestID != "" {
		meta["request_id"] = requestID
	}
	for k, v := range customMeta {
		meta[k] = v
	}
	return meta
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = jsonAPI.NewEncoder(w).Encode(body)
}

// JSONSuccess writes a 200 envelope carrying data and optional meta.
func JSONSuccess(w http.ResponseWriter, r *http.Request, data interface{}, meta map[string]any) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

// JSONSuccessMessage writes a success envelope with a human readable message.
func JSONSuccessMessage(w http.ResponseWriter, r *http.Request, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    buildMeta(r, nil),
	})
}

func JSONSuccessCreated(w http.ResponseWriter, r *http.Request, message string, data interface{}) {
	JSONSuccessMessage(w, r, http.StatusCreated, message, data)
}

func JSONSuccessNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	writeJSON(w, statusCode, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  details,
		Meta:    buildMeta(r, nil),
	})
}

// JSONValidationError reports every field problem in verr with a 400.
func JSONValidationError(w http.ResponseWriter, r *http.Request, verr *validate.Error) {
	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
}

// DecodeJSON reads a request body into dst, rejecting trailing data. An empty
// body is reported as io.EOF.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
