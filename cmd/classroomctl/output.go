package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/classroom-core/internal/models"
)

// render writes v to w in the requested format.
func render(w io.Writer, format string, v interface{}) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// renderUser writes the password-free view of u. A nil user renders as null.
func renderUser(w io.Writer, format string, u *models.User) error {
	if u == nil {
		return render(w, format, nil)
	}
	return render(w, format, u.Info())
}

// readUpload loads a file from disk. An empty path yields no upload.
func readUpload(path string) (*models.FileUpload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &models.FileUpload{Name: filepath.Base(path), Data: data}, nil
}
