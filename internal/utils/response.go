package utils

import "time"

// FieldDetail is a field-addressed error entry for 400 responses.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	Error     string        `json:"error,omitempty"`
	Details   []FieldDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

func ValidationErrorResponse(message string, details []FieldDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     "validation failed",
		Details:   details,
		Timestamp: time.Now(),
	}
}
