package bin

import (
	"fmt"
	"sort"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Registry is an immutable set of known services, built once at startup
// and safe for concurrent reads.
type Registry struct {
	bins map[string]Bin
}

// NewRegistry creates a registry from the given services.
func NewRegistry(bins ...Bin) *Registry {
	m := make(map[string]Bin, len(bins))
	for _, b := range bins {
		m[b.Name()] = b
	}
	return &Registry{bins: m}
}

// Credentials carries per-service secrets and endpoints from the config
// file. The core never interprets these; they pass through to the
// service implementations.
type Credentials struct {
	GistToken         string
	PastebinAPIKey    string
	PastebinUserKey   string
	HastebinServer    string
	BitbucketUsername string
	BitbucketPassword string
	PasteGgAPIKey     string
	BucketURL         string
}

// DefaultRegistry builds the registry of all known services.
func DefaultRegistry(client *binshttp.Client, creds Credentials) *Registry {
	return NewRegistry(
		NewSprunge(client),
		NewHastebin(client, creds.HastebinServer),
		NewFedora(client),
		NewGist(client, creds.GistToken),
		NewPastebin(client, creds.PastebinAPIKey, creds.PastebinUserKey),
		NewBitbucket(client, creds.BitbucketUsername, creds.BitbucketPassword),
		NewPasteGg(client, creds.PasteGgAPIKey),
		NewBucket(creds.BucketURL),
	)
}

// Get returns the service with the given name, or an error wrapping
// ErrUnknownService.
func (r *Registry) Get(name string) (Bin, error) {
	b, ok := r.bins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	return b, nil
}

// Names returns all known service names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bins))
	for name := range r.bins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
