// Package api provides the HTTP client for the advisor chat backend.
package api

// GJSON paths for the fields of an answer. A response is either a major
// record or a {message} fallback; anything else renders nothing.
const (
	PathMajor           = "major"
	PathCollege         = "college"
	PathTuitionInState  = "tuition_in_state"
	PathTuitionOutState = "tuition_out_state"
	PathDescription     = "description"
	PathMessage         = "message"
)
