// Package models contains data types and constants for the advisor chat client.
package models

// DefaultEndpoint is the advisor backend's chat route
const DefaultEndpoint = "http://127.0.0.1:8000/chat"

// Fixed texts shown in the transcript
const (
	TypingPlaceholderText = "AI Assistant is typing..."
	ConnectionErrorText   = "⚠️ Error connecting to the server."
)

// DefaultHeaders returns the headers sent with every question
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "advisorchat",
	}
}
