// Package classify inspects content buffers and assigns a type label.
//
// Classification is an optional capability: callers hold a Classifier that
// may be nil, and a nil classifier means type checks are skipped entirely
// rather than silently passed.
package classify

import (
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Unknown is the label returned when a buffer cannot be classified.
const Unknown = "unknown"

// Classifier assigns a free-form type label to a content buffer.
type Classifier interface {
	Classify(content []byte) string
}

// Detector classifies content by magic bytes, with special handling for
// PEM-encoded key material so that disallow lists can name key types
// ("PEM RSA private key") rather than generic MIME types.
type Detector struct{}

// New returns a magic-byte content classifier.
func New() *Detector {
	return &Detector{}
}

// pemLabels maps PEM block headers to their classification labels.
var pemLabels = map[string]string{
	"RSA PRIVATE KEY":       "PEM RSA private key",
	"DSA PRIVATE KEY":       "PEM DSA private key",
	"EC PRIVATE KEY":        "PEM EC private key",
	"OPENSSH PRIVATE KEY":   "OpenSSH private key",
	"PRIVATE KEY":           "PEM private key",
	"ENCRYPTED PRIVATE KEY": "PEM encrypted private key",
	"CERTIFICATE":           "PEM certificate",
}

// Classify returns a type label for content, or Unknown.
func (d *Detector) Classify(content []byte) string {
	if label, ok := classifyPEM(content); ok {
		return label
	}

	mt := mimetype.Detect(content)
	if mt == nil {
		return Unknown
	}
	label := mt.String()
	if label == "" {
		return Unknown
	}
	// Strip parameters such as "; charset=utf-8".
	if i := strings.IndexByte(label, ';'); i >= 0 {
		label = label[:i]
	}
	return label
}

// classifyPEM looks for a PEM block header near the start of the buffer.
func classifyPEM(content []byte) (string, bool) {
	head := content
	if len(head) > 256 {
		head = head[:256]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("-----BEGIN ")) {
		return "", false
	}
	rest := trimmed[len("-----BEGIN "):]
	end := bytes.Index(rest, []byte("-----"))
	if end < 0 {
		return "", false
	}
	kind := string(rest[:end])
	if label, ok := pemLabels[kind]; ok {
		return label, true
	}
	return "PEM " + strings.ToLower(kind), true
}
