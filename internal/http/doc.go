// Package http provides the HTTP client shared by paste service backends.
//
// This package handles:
//   - Connection pooling across uploads
//   - Form, JSON, and raw POST bodies
//   - Retry with exponential backoff on transport and 5xx errors
//   - Typed errors for common failure statuses
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	body, err := client.PostForm(ctx, endpoint, values)
//
//	body, err := client.PostJSON(ctx, endpoint, payload,
//	    http.Header{Key: "Authorization", Value: "token " + token})
package http
