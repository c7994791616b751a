// Package response defines the HTTP response DTOs.
package response

import (
	"time"
)

// ApiResponse is a generic response wrapper for all API responses
type ApiResponse[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Data      T         `json:"data,omitempty"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccess creates a successful API response
func NewSuccess[T any](data T) ApiResponse[T] {
	return ApiResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewError creates an error API response carrying the stable protocol
// error code.
func NewError[T any](code, message string) ApiResponse[T] {
	return ApiResponse[T]{
		Success:   false,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}
