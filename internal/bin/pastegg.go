package bin

import (
	"context"
	"encoding/json"
	"fmt"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// PasteGg uploads to paste.gg. Supports private pastes and
// authenticated uploads via an API key; all files of a request go into
// a single paste.
type PasteGg struct {
	caps
	client   *binshttp.Client
	endpoint string
	htmlBase string
	apiKey   string
}

// NewPasteGg creates the paste.gg service.
func NewPasteGg(client *binshttp.Client, apiKey string) *PasteGg {
	return &PasteGg{
		caps:     caps{private: true, auth: true},
		client:   client,
		endpoint: "https://api.paste.gg/v1",
		htmlBase: "https://paste.gg",
		apiKey:   apiKey,
	}
}

func (p *PasteGg) Name() string { return "pastegg" }

type pasteGgContent struct {
	Format string `json:"format"`
	Value  string `json:"value"`
}

type pasteGgFile struct {
	Name    string         `json:"name"`
	Content pasteGgContent `json:"content"`
}

type pasteGgRequest struct {
	Visibility string        `json:"visibility"`
	Files      []pasteGgFile `json:"files"`
}

type pasteGgResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Result struct {
		ID string `json:"id"`
	} `json:"result"`
}

func (p *PasteGg) Upload(ctx context.Context, file UploadFile, opts UploadOptions) (PasteURL, error) {
	urls, err := p.UploadAll(ctx, []UploadFile{file}, opts)
	if err != nil {
		return PasteURL{}, err
	}
	return urls[0], nil
}

// UploadAll stores all files in one paste.
func (p *PasteGg) UploadAll(ctx context.Context, files []UploadFile, opts UploadOptions) ([]PasteURL, error) {
	visibility := "public"
	if opts.Private {
		visibility = "private"
	}
	payload := pasteGgRequest{Visibility: visibility}
	for _, f := range files {
		payload.Files = append(payload.Files, pasteGgFile{
			Name:    f.Name,
			Content: pasteGgContent{Format: "text", Value: string(f.Content)},
		})
	}

	var headers []binshttp.Header
	if opts.Authed {
		if p.apiKey == "" {
			return nil, fmt.Errorf("pastegg: authed upload requires an api_key in the config")
		}
		headers = append(headers, binshttp.Header{Key: "Authorization", Value: "Key " + p.apiKey})
	}

	body, err := p.client.PostJSON(ctx, p.endpoint+"/pastes", payload, headers...)
	if err != nil {
		return nil, fmt.Errorf("pastegg: %w", err)
	}

	var resp pasteGgResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("pastegg: decode response: %w", err)
	}
	if resp.Status != "success" || resp.Result.ID == "" {
		return nil, fmt.Errorf("pastegg: paste rejected: %s", resp.Error)
	}

	pasteURL := fmt.Sprintf("%s/p/anonymous/%s", p.htmlBase, resp.Result.ID)
	urls := make([]PasteURL, len(files))
	for i, f := range files {
		urls[i] = PasteURL{File: f.Name, URL: pasteURL}
	}
	return urls, nil
}
