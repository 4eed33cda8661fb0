package bin

import (
	"context"
	"encoding/json"
	"fmt"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Fedora uploads to paste.fedoraproject.org. Pastes are public and
// anonymous.
type Fedora struct {
	caps
	client   *binshttp.Client
	endpoint string
}

// NewFedora creates the Fedora paste service.
func NewFedora(client *binshttp.Client) *Fedora {
	return &Fedora{
		client:   client,
		endpoint: "https://paste.fedoraproject.org",
	}
}

func (f *Fedora) Name() string { return "fedora" }

func (f *Fedora) Upload(ctx context.Context, file UploadFile, _ UploadOptions) (PasteURL, error) {
	payload := map[string]string{
		"title":    file.Name,
		"language": "text",
		"contents": string(file.Content),
	}

	body, err := f.client.PostJSON(ctx, f.endpoint+"/api/paste/submit", payload)
	if err != nil {
		return PasteURL{}, fmt.Errorf("fedora: %w", err)
	}

	var resp struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return PasteURL{}, fmt.Errorf("fedora: decode response: %w", err)
	}
	if !resp.Success || resp.URL == "" {
		return PasteURL{}, fmt.Errorf("fedora: paste rejected: %s", resp.Message)
	}

	return PasteURL{File: file.Name, URL: resp.URL}, nil
}
