package bin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Bitbucket uploads to Bitbucket snippets. Snippets can be private and
// always require credentials: auth is mandated, not negotiated.
type Bitbucket struct {
	caps
	client   *binshttp.Client
	endpoint string
	username string
	password string
}

// NewBitbucket creates the Bitbucket snippets service. The password is
// an app password, not the account password.
func NewBitbucket(client *binshttp.Client, username, password string) *Bitbucket {
	return &Bitbucket{
		caps:     caps{private: true, forcesAuth: true},
		client:   client,
		endpoint: "https://api.bitbucket.org/2.0",
		username: username,
		password: password,
	}
}

func (b *Bitbucket) Name() string { return "bitbucket" }

func (b *Bitbucket) Upload(ctx context.Context, file UploadFile, opts UploadOptions) (PasteURL, error) {
	urls, err := b.UploadAll(ctx, []UploadFile{file}, opts)
	if err != nil {
		return PasteURL{}, err
	}
	return urls[0], nil
}

// UploadAll stores all files in one snippet.
func (b *Bitbucket) UploadAll(ctx context.Context, files []UploadFile, opts UploadOptions) ([]PasteURL, error) {
	if b.username == "" || b.password == "" {
		return nil, fmt.Errorf("bitbucket: username and app_password missing from config")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("file", f.Name)
		if err != nil {
			return nil, fmt.Errorf("bitbucket: build request: %w", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("bitbucket: build request: %w", err)
		}
	}
	if err := w.WriteField("is_private", fmt.Sprintf("%t", opts.Private)); err != nil {
		return nil, fmt.Errorf("bitbucket: build request: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bitbucket: build request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/snippets/%s", b.endpoint, b.username)
	body, err := b.client.PostRaw(ctx, endpoint, w.FormDataContentType(), buf.Bytes(),
		binshttp.BasicAuth(b.username, b.password))
	if err != nil {
		return nil, fmt.Errorf("bitbucket: %w", err)
	}

	var resp struct {
		Links struct {
			HTML struct {
				Href string `json:"href"`
			} `json:"html"`
		} `json:"links"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("bitbucket: decode response: %w", err)
	}
	if resp.Links.HTML.Href == "" {
		return nil, fmt.Errorf("bitbucket: response missing snippet link")
	}

	urls := make([]PasteURL, len(files))
	for i, f := range files {
		urls[i] = PasteURL{File: f.Name, URL: resp.Links.HTML.Href}
	}
	return urls, nil
}
