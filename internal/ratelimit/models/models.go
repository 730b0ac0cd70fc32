package models

import "time"

// Result is the outcome of one admission check against a sliding window.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the number of seconds until a denied key may retry.
	RetryAfter int
}

// Policy is the request allowance for one class of endpoint.
type Policy struct {
	Limit  int
	Window time.Duration
}

// ExceededResponse is the 429 response body.
type ExceededResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	RetryAfter       int    `json:"retry_after"`
}

// Key builds a bucket key for an endpoint class and client identifier.
func Key(class, id string) string {
	return "ratelimit:" + class + ":" + id
}
