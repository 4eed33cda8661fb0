package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jkcclemens/bins/internal/bin"
)

// gatherInputs builds the upload set from the command line: file
// arguments, an inline message, or stdin when neither is given.
// Message and stdin inputs carry no on-disk identity, so the safety
// gate skips them.
func gatherInputs(cf cliFlags, stdin io.Reader) ([]bin.UploadFile, error) {
	if cf.message != "" {
		return []bin.UploadFile{{
			Name:       orName(cf.name, "message"),
			Content:    []byte(cf.message),
			FromStream: true,
		}}, nil
	}

	if len(cf.paths) == 0 {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []bin.UploadFile{{
			Name:       orName(cf.name, "stdin"),
			Content:    content,
			FromStream: true,
		}}, nil
	}

	files := make([]bin.UploadFile, 0, len(cf.paths))
	for _, path := range cf.paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, bin.UploadFile{
			Name:    orName(cf.name, filepath.Base(path)),
			Content: content,
		})
	}
	return files, nil
}

func orName(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}
