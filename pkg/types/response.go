package types

// MessageResponse is the explicit empty-result payload. Controllers render it
// instead of an empty items list when a query matched nothing.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error payload shape for every failure path.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Errors any    `json:"errors,omitempty"`
}
