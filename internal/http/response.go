package http

import (
	"encoding/json"
	"net/http"
)

// ErrorBody é o formato único de falha devolvido ao cliente.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// WriteJSON define status e content type e serializa o valor.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError escreve {"error": ...} com detalhes opcionais.
func WriteError(w http.ResponseWriter, status int, message string, details any) {
	WriteJSON(w, status, ErrorBody{Error: message, Details: details})
}

// WriteMessage escreve {"message": ...}.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}
