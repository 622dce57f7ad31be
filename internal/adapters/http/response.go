package http

import (
	"encoding/json"
	"net/http"

	"github.com/videarn/ledger-service/internal/contracts"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, contracts.SuccessResponse{
		Status: "success",
		Data:   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, contracts.SuccessResponse{
		Status:  "success",
		Message: message,
	})
}

// writeListSuccess wraps a page of items under key together with the
// pagination block listing clients use for cursoring.
func writeListSuccess(w http.ResponseWriter, key string, items any, limit, offset, total int) {
	writeJSON(w, http.StatusOK, contracts.SuccessResponse{
		Status: "success",
		Data: map[string]any{
			key: items,
			"pagination": contracts.Pagination{
				Limit:  limit,
				Offset: offset,
				Total:  total,
			},
		},
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, contracts.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}
