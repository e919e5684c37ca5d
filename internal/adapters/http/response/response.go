// Package response padroniza o envelope JSON usado pela API do backend.
package response

import (
	"encoding/json"
	"net/http"
)

type Envelope struct {
	ResponseStatus  int    `json:"responseStatus"`
	ResponseMessage string `json:"responseMessage"`
	Data            any    `json:"data"`
	RetryAfter      *int   `json:"retryAfter,omitempty"`
}

func JSON(w http.ResponseWriter, status int, env Envelope) {
	env.ResponseStatus = status
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{ResponseMessage: "success", Data: data})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{ResponseMessage: message})
}

func TooManyRequests(w http.ResponseWriter, message string, retryAfterSeconds int) {
	JSON(w, http.StatusTooManyRequests, Envelope{ResponseMessage: message, RetryAfter: &retryAfterSeconds})
}
