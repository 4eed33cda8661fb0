package bin

import (
	"context"
	"encoding/json"
	"fmt"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Gist uploads to GitHub Gist. Supports secret (private) gists and
// authenticated uploads via a personal access token; all files of a
// request go into a single gist.
type Gist struct {
	caps
	client   *binshttp.Client
	endpoint string
	token    string
}

// NewGist creates the GitHub Gist service.
func NewGist(client *binshttp.Client, token string) *Gist {
	return &Gist{
		caps:     caps{private: true, auth: true},
		client:   client,
		endpoint: "https://api.github.com",
		token:    token,
	}
}

func (g *Gist) Name() string { return "gist" }

type gistFile struct {
	Content string `json:"content"`
}

type gistRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	HTMLURL string `json:"html_url"`
}

func (g *Gist) Upload(ctx context.Context, file UploadFile, opts UploadOptions) (PasteURL, error) {
	urls, err := g.UploadAll(ctx, []UploadFile{file}, opts)
	if err != nil {
		return PasteURL{}, err
	}
	return urls[0], nil
}

// UploadAll stores all files in one gist.
func (g *Gist) UploadAll(ctx context.Context, files []UploadFile, opts UploadOptions) ([]PasteURL, error) {
	payload := gistRequest{
		Public: !opts.Private,
		Files:  make(map[string]gistFile, len(files)),
	}
	for _, f := range files {
		payload.Files[f.Name] = gistFile{Content: string(f.Content)}
	}

	var headers []binshttp.Header
	if opts.Authed {
		if g.token == "" {
			return nil, fmt.Errorf("gist: authed upload requires an access token in the config")
		}
		headers = append(headers, binshttp.Header{Key: "Authorization", Value: "token " + g.token})
	}

	body, err := g.client.PostJSON(ctx, g.endpoint+"/gists", payload, headers...)
	if err != nil {
		return nil, fmt.Errorf("gist: %w", err)
	}

	var resp gistResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gist: decode response: %w", err)
	}
	if resp.HTMLURL == "" {
		return nil, fmt.Errorf("gist: response missing html_url")
	}

	urls := make([]PasteURL, len(files))
	for i, f := range files {
		urls[i] = PasteURL{File: f.Name, URL: resp.HTMLURL}
	}
	return urls, nil
}
