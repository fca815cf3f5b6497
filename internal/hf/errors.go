package hf

import (
	"fmt"
	"strings"
)

// AuthError indicates the endpoint rejected the credential.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected (status %d): %s", e.StatusCode, e.Message)
}

// CapabilityError indicates the model does not support the requested task.
type CapabilityError struct {
	Model   string
	Task    string
	Message string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("model %s does not support %s: %s", e.Model, e.Task, e.Message)
}

// APIError is any other non-2xx response from the inference endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference API error (status %d): %s", e.StatusCode, e.Message)
}

// capabilityIndications are substrings the endpoint uses to signal that a
// model cannot serve the requested pipeline.
var capabilityIndications = []string{
	"not supported",
	"unsupported",
	"not a chat model",
	"conversational",
	"template",
	"pipeline",
}

func isCapabilityMessage(msg string) bool {
	lowered := strings.ToLower(msg)
	for _, ind := range capabilityIndications {
		if strings.Contains(lowered, ind) {
			return true
		}
	}
	return false
}

// classifyStatus maps a non-2xx response to a typed error.
func classifyStatus(model, task string, status int, message string) error {
	switch {
	case status == 401 || status == 403:
		return &AuthError{StatusCode: status, Message: message}
	case status >= 400 && status < 500 && isCapabilityMessage(message):
		return &CapabilityError{Model: model, Task: task, Message: message}
	default:
		return &APIError{StatusCode: status, Message: message}
	}
}
