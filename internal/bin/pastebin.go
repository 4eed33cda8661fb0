package bin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	binshttp "github.com/jkcclemens/bins/internal/http"
)

// Pastebin uploads to pastebin.com. Supports unlisted (private) pastes
// and authenticated uploads via an api_user_key.
type Pastebin struct {
	caps
	client   *binshttp.Client
	endpoint string
	apiKey   string
	userKey  string
}

// NewPastebin creates the pastebin.com service.
func NewPastebin(client *binshttp.Client, apiKey, userKey string) *Pastebin {
	return &Pastebin{
		caps:     caps{private: true, auth: true},
		client:   client,
		endpoint: "https://pastebin.com/api/api_post.php",
		apiKey:   apiKey,
		userKey:  userKey,
	}
}

func (p *Pastebin) Name() string { return "pastebin" }

func (p *Pastebin) Upload(ctx context.Context, file UploadFile, opts UploadOptions) (PasteURL, error) {
	if p.apiKey == "" {
		return PasteURL{}, fmt.Errorf("pastebin: api_key missing from config")
	}

	values := url.Values{
		"api_dev_key":    {p.apiKey},
		"api_option":     {"paste"},
		"api_paste_code": {string(file.Content)},
		"api_paste_name": {file.Name},
	}
	if opts.Private {
		// 1 = unlisted; 2 (truly private) requires a user key.
		if opts.Authed {
			values.Set("api_paste_private", "2")
		} else {
			values.Set("api_paste_private", "1")
		}
	} else {
		values.Set("api_paste_private", "0")
	}
	if opts.Authed {
		if p.userKey == "" {
			return PasteURL{}, fmt.Errorf("pastebin: authed upload requires a user_key in the config")
		}
		values.Set("api_user_key", p.userKey)
	}

	body, err := p.client.PostForm(ctx, p.endpoint, values)
	if err != nil {
		return PasteURL{}, fmt.Errorf("pastebin: %w", err)
	}

	reply := strings.TrimSpace(string(body))
	if !strings.HasPrefix(reply, "http") {
		// The API reports errors as plain text in the body.
		return PasteURL{}, fmt.Errorf("pastebin: %s", reply)
	}
	return PasteURL{File: file.Name, URL: reply}, nil
}
