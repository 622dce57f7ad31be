package contracts

// Wire envelopes for the HTTP surface. Every response carries a status
// discriminator so clients can branch without inspecting HTTP codes first.

type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Pagination echoes the page window a listing was resolved with, alongside
// the total row count for that filter.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}
