package handle

import (
	"encoding/json"
	"net/http"

	"cantina-chat/internal/chat/domain/dto"
)

// jsonResponse writes data as a JSON body with the given status code.
func jsonResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes {"erro": "..."} with the given status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: err.Error()})
}
