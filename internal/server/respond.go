package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

const internalErrorMessage = "Internal server error"

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// clientError is implemented by errors that carry their own HTTP mapping.
type clientError interface {
	error
	StatusCode() int
	PublicMessage() string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"status":"error","message":"` + internalErrorMessage + `"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Status: "error", Message: message})
}

// publicErrorOf maps err to the status and message shown to clients. Causes
// are never exposed.
func publicErrorOf(err error) (int, string) {
	var pe clientError
	if errors.As(err, &pe) {
		status := pe.StatusCode()
		if status == 0 {
			status = http.StatusInternalServerError
		}
		message := pe.PublicMessage()
		if message == "" {
			message = internalErrorMessage
		}
		return status, message
	}
	return http.StatusInternalServerError, internalErrorMessage
}
