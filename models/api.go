package models

// APIResponse is the envelope every endpoint responds with
// @Description Standard response envelope
type APIResponse struct {
	Status  string      `json:"status" example:"success"` // "success" or "error"
	Code    int         `json:"code" example:"200"`       // HTTP status code
	Message string      `json:"message,omitempty"`        // Human-readable message
	Data    interface{} `json:"data,omitempty"`           // Endpoint payload
	Error   *APIError   `json:"error,omitempty"`          // Set only on error responses
}

// APIError carries the error detail inside an error envelope
// @Description Error detail for failed requests
type APIError struct {
	Type    string `json:"type,omitempty" example:"ValidationError"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"` // Failing field for validation errors
}
