package bin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// Bucket uploads to an object storage bucket (s3://, gs://, or any
// other gocloud.dev/blob URL from the config). Objects are only as
// private as the bucket itself, so the private feature is not
// supported; credentials always come from the bucket URL and
// environment, so auth is mandated rather than negotiated.
type Bucket struct {
	caps
	url string

	// open is swapped in tests to avoid touching real cloud backends.
	open func(ctx context.Context, url string) (*blob.Bucket, error)

	// now allows tests to pin the object key prefix.
	now func() time.Time
}

// NewBucket creates the object storage service.
func NewBucket(url string) *Bucket {
	return &Bucket{
		caps: caps{forcesAuth: true},
		url:  url,
		open: blob.OpenBucket,
		now:  time.Now,
	}
}

func (b *Bucket) Name() string { return "bucket" }

func (b *Bucket) Upload(ctx context.Context, file UploadFile, opts UploadOptions) (PasteURL, error) {
	urls, err := b.UploadAll(ctx, []UploadFile{file}, opts)
	if err != nil {
		return PasteURL{}, err
	}
	return urls[0], nil
}

// UploadAll writes each file as an object under a shared timestamped
// prefix, one bucket handle for the whole batch.
func (b *Bucket) UploadAll(ctx context.Context, files []UploadFile, _ UploadOptions) ([]PasteURL, error) {
	if b.url == "" {
		return nil, fmt.Errorf("bucket: url missing from config")
	}

	bkt, err := b.open(ctx, b.url)
	if err != nil {
		return nil, fmt.Errorf("bucket: open %s: %w", b.url, err)
	}
	defer bkt.Close()

	prefix := b.now().UTC().Format("20060102-150405")
	base := strings.TrimSuffix(b.url, "/")

	urls := make([]PasteURL, len(files))
	for i, f := range files {
		key := prefix + "/" + f.Name
		if err := bkt.WriteAll(ctx, key, f.Content, nil); err != nil {
			return nil, fmt.Errorf("bucket: write %s: %w", key, err)
		}
		urls[i] = PasteURL{File: f.Name, URL: base + "/" + key}
	}
	return urls, nil
}
