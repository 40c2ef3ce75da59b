package handlers

import (
	"encoding/json"
	"net/http"
)

// Health: живость процесса; зависимости не проверяет.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
