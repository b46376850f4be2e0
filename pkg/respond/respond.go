// Package respond writes the uniform response envelope: every success is
// {"success":true,"data":...} and every failure is
// {"success":false,"error":{...}}, so clients parse one shape.
package respond

import (
	"encoding/json"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorBody struct {
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Meta    any        `json:"meta,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, r *http.Request, code int, data any) {
	JSON(w, r, code, Envelope{Success: true, Data: data})
}

func SuccessMeta(w http.ResponseWriter, r *http.Request, code int, data, meta any) {
	JSON(w, r, code, Envelope{Success: true, Data: data, Meta: meta})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, Envelope{Error: &ErrorBody{Message: message}})
}

func ValidationError(w http.ResponseWriter, r *http.Request, details []FieldError) {
	JSON(w, r, http.StatusBadRequest, Envelope{Error: &ErrorBody{
		Message: "Validation failed",
		Details: details,
	}})
}
