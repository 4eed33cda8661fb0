package bin

import (
	"context"
	"errors"
)

// Feature is an optional paste feature a service may support.
type Feature string

const (
	// Private marks pastes hidden from public listings.
	Private Feature = "private"
	// Auth marks pastes created under a user account.
	Auth Feature = "auth"
)

// ErrUnknownService is returned by the registry for unrecognized service names.
var ErrUnknownService = errors.New("bin: unknown service")

// Capabilities describes which optional features a service supports and
// which it mandates regardless of what the request asks for.
type Capabilities interface {
	// Supports reports whether the service can honor the feature.
	Supports(f Feature) bool

	// Mandates reports whether the service applies the feature
	// unconditionally. A mandated feature is implicitly supported
	// and is never subject to negotiation.
	Mandates(f Feature) bool
}

// UploadFile is a named content buffer queued for upload.
type UploadFile struct {
	// Name is the base filename, or a synthetic name ("stdin",
	// "message") for stream input.
	Name string

	// Content is the raw bytes to upload.
	Content []byte

	// FromStream marks ad hoc stdin/message content, which is exempt
	// from file-only safety checks.
	FromStream bool
}

// PasteURL is the address of one uploaded paste.
type PasteURL struct {
	File string
	URL  string
}

// UploadOptions carries the negotiated effective features into an upload.
type UploadOptions struct {
	Private bool
	Authed  bool
}

// Bin is a paste service backend. Implementations own their wire
// protocol; callers are responsible for gating and negotiating the
// request before Upload is invoked.
type Bin interface {
	Capabilities

	// Name returns the service identifier used in config and on the CLI.
	Name() string

	// Upload sends a single file to the service.
	Upload(ctx context.Context, file UploadFile, opts UploadOptions) (PasteURL, error)
}

// MultiUploader is implemented by services that can store several files
// in a single paste (one network call). The dispatcher prefers this over
// per-file Upload calls when a request has multiple files.
type MultiUploader interface {
	UploadAll(ctx context.Context, files []UploadFile, opts UploadOptions) ([]PasteURL, error)
}

// caps is the capability set variant shared by service implementations.
type caps struct {
	private    bool
	auth       bool
	forcesAuth bool
}

func (c caps) Supports(f Feature) bool {
	switch f {
	case Private:
		return c.private
	case Auth:
		return c.auth || c.forcesAuth
	}
	return false
}

func (c caps) Mandates(f Feature) bool {
	return f == Auth && c.forcesAuth
}
