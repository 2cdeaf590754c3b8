// Package rjson writes the JSON envelopes the REST surface speaks: plain
// payloads on success, {"error": message} on failure, {"success": true} for
// acknowledged mutations.
package rjson

import (
	"database/sql"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/funil-crm/funil/pkg/apperror"
	"github.com/funil-crm/funil/pkg/validate"
)

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, map[string]string{"error": message})
}

// Success writes the bare acknowledgement mutations answer with.
func Success(w http.ResponseWriter) {
	Write(w, http.StatusOK, map[string]bool{"success": true})
}

// WriteError maps err to a status and message. sql.ErrNoRows surfaces as a
// 404 with notFoundMsg; coded errors use their own mapping; anything else is
// a 500 with a generic message so internals never leak.
func WriteError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, sql.ErrNoRows) {
		Error(w, http.StatusNotFound, notFoundMsg)
		return
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		Error(w, apperror.HTTPStatus(ae), ae.Error())
		return
	}
	Error(w, http.StatusInternalServerError, "Erro interno do servidor")
}

// WriteViolations reports form validation failures with one message per
// field.
func WriteViolations(w http.ResponseWriter, v validate.Violations) {
	fields := make(map[string]string, len(v))
	for _, fe := range v {
		fields[fe.Field] = fe.Message
	}
	Write(w, http.StatusBadRequest, map[string]any{
		"error":  "Dados inválidos",
		"fields": fields,
	})
}

// Decode parses the request body into dst, limiting the size to keep
// oversized payloads out.
func Decode(r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)).Decode(dst)
}
