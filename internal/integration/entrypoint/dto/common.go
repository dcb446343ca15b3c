// Package dto defines the request and response payloads of the API.
package dto

// ErrorResponse is the error payload returned by all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
