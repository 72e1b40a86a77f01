// Package response writes the JSON envelope used by every API endpoint.
//
// Success bodies carry {"success":true, ...}; failures carry
// {"success":false,"message":...}. Nothing else ever reaches the client;
// stack traces and driver errors stay in the server log.
package response

import (
	"encoding/json"
	"net/http"
)

// M is a shorthand for response payload maps.
type M map[string]interface{}

func write(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// OK sends a 200 with success=true plus the given fields.
func OK(w http.ResponseWriter, fields M) {
	body := M{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	write(w, http.StatusOK, body)
}

// Created sends a 201 with success=true plus the given fields.
func Created(w http.ResponseWriter, fields M) {
	body := M{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	write(w, http.StatusCreated, body)
}

// JSON sends an arbitrary document verbatim (content endpoints return the
// stored document with no envelope).
func JSON(w http.ResponseWriter, status int, doc interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(doc) //nolint:errcheck
}

// Fail sends an error status with success=false and a user-safe message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, M{"success": false, "message": message})
}

// ValidationFail sends a 400 with field-level error map.
func ValidationFail(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, M{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, message)
}
