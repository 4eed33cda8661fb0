package bin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Sprunge uploads to sprunge.us. Pastes are always public and anonymous.
type Sprunge struct {
	caps
	client   *binshttp.Client
	endpoint string
}

// NewSprunge creates the sprunge.us service.
func NewSprunge(client *binshttp.Client) *Sprunge {
	return &Sprunge{
		client:   client,
		endpoint: "http://sprunge.us",
	}
}

func (s *Sprunge) Name() string { return "sprunge" }

func (s *Sprunge) Upload(ctx context.Context, file UploadFile, _ UploadOptions) (PasteURL, error) {
	body, err := s.client.PostForm(ctx, s.endpoint, url.Values{
		"sprunge": {string(file.Content)},
	})
	if err != nil {
		return PasteURL{}, fmt.Errorf("sprunge: %w", err)
	}

	pasteURL := strings.TrimSpace(string(body))
	if pasteURL == "" {
		return PasteURL{}, fmt.Errorf("sprunge: empty response")
	}
	return PasteURL{File: file.Name, URL: pasteURL}, nil
}
