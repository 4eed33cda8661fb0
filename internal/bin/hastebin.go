package bin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Hastebin uploads to a hastebin server. Pastes are always public and
// anonymous. The server is configurable for self-hosted instances.
type Hastebin struct {
	caps
	client *binshttp.Client
	server string
}

// NewHastebin creates the hastebin service. An empty server uses the
// public hastebin.com instance.
func NewHastebin(client *binshttp.Client, server string) *Hastebin {
	if server == "" {
		server = "https://hastebin.com"
	}
	return &Hastebin{
		client: client,
		server: strings.TrimSuffix(server, "/"),
	}
}

func (h *Hastebin) Name() string { return "hastebin" }

func (h *Hastebin) Upload(ctx context.Context, file UploadFile, _ UploadOptions) (PasteURL, error) {
	body, err := h.client.PostRaw(ctx, h.server+"/documents", "text/plain", file.Content)
	if err != nil {
		return PasteURL{}, fmt.Errorf("hastebin: %w", err)
	}

	var resp struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return PasteURL{}, fmt.Errorf("hastebin: decode response: %w", err)
	}
	if resp.Key == "" {
		return PasteURL{}, fmt.Errorf("hastebin: response missing key")
	}

	return PasteURL{File: file.Name, URL: h.server + "/" + resp.Key}, nil
}
