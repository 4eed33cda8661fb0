package bin

import (
	"errors"
	"reflect"
	"testing"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

func TestRegistryGet(t *testing.T) {
	r := DefaultRegistry(binshttp.NewClient(binshttp.DefaultOptions()), Credentials{})

	b, err := r.Get("gist")
	if err != nil {
		t.Fatalf("Get(gist): %v", err)
	}
	if b.Name() != "gist" {
		t.Errorf("unexpected service: %s", b.Name())
	}
}

func TestRegistryUnknownService(t *testing.T) {
	r := DefaultRegistry(binshttp.NewClient(binshttp.DefaultOptions()), Credentials{})

	_, err := r.Get("nope")
	if !errors.Is(err, ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := DefaultRegistry(binshttp.NewClient(binshttp.DefaultOptions()), Credentials{})

	expected := []string{"bitbucket", "bucket", "fedora", "gist", "hastebin", "pastebin", "pastegg", "sprunge"}
	if got := r.Names(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Names() = %v, want %v", got, expected)
	}
}

func TestRegistryCapabilities(t *testing.T) {
	r := DefaultRegistry(binshttp.NewClient(binshttp.DefaultOptions()), Credentials{})

	tests := []struct {
		service      string
		private      bool
		auth         bool
		mandatesAuth bool
	}{
		{"sprunge", false, false, false},
		{"hastebin", false, false, false},
		{"fedora", false, false, false},
		{"gist", true, true, false},
		{"pastebin", true, true, false},
		{"pastegg", true, true, false},
		{"bitbucket", true, true, true},
		{"bucket", false, true, true},
	}

	for _, tt := range tests {
		b, err := r.Get(tt.service)
		if err != nil {
			t.Errorf("Get(%s): %v", tt.service, err)
			continue
		}
		if got := b.Supports(Private); got != tt.private {
			t.Errorf("%s: Supports(Private) = %v, want %v", tt.service, got, tt.private)
		}
		if got := b.Supports(Auth); got != tt.auth {
			t.Errorf("%s: Supports(Auth) = %v, want %v", tt.service, got, tt.auth)
		}
		if got := b.Mandates(Auth); got != tt.mandatesAuth {
			t.Errorf("%s: Mandates(Auth) = %v, want %v", tt.service, got, tt.mandatesAuth)
		}
		if b.Mandates(Private) {
			t.Errorf("%s: no service mandates private", tt.service)
		}
	}
}
