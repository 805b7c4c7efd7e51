package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// MessageResponse is the body of successful writes.
type MessageResponse struct {
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// RequestMeta carries the request id assigned by the logging middleware.
func RequestMeta(w http.ResponseWriter, r *http.Request, header string) map[string]string {
	id := ""
	if r != nil {
		id = r.Header.Get(header)
	}
	if id == "" && w != nil {
		id = w.Header().Get(header)
	}
	if id == "" {
		return nil
	}
	return map[string]string{"request_id": id}
}

// DecodeJSON reads a JSON object body into dst. Numbers stay json.Number.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}
