package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the response body with the given status. All player
// endpoints respond through this, so every body carries the JSON
// content type.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
