// Package common contains constants shared by the paperkeeper client layers.
package common

const (
	// AuthorizationHeaderName carries the session ID token as a Bearer credential.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName tags every outbound request so client and server logs
	// can be correlated.
	RequestIDHeaderName = "X-Request-Id"

	// UserAgent is sent on every outbound request.
	UserAgent = "paperkeeper-cli"
)
