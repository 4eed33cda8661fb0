// Package clipboard copies paste URLs to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copy places text on the system clipboard. A clipboard failure is
// reported but never fails the upload that produced the text.
func Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: not supported on this platform")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
