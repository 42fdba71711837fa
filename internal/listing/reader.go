// Package listing parses neutral plant-design database exports into branch
// and component entities.
package listing

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// ReadFile reads a listing file and decodes it with the named charset.
// Plant exports are frequently Windows-1252; an empty charset means the
// bytes are used as-is. A missing or unreadable file is fatal to the run.
func ReadFile(path, charset string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "listing: open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if charset != "" {
		enc, encErr := htmlindex.Get(charset)
		if encErr != nil {
			return "", eris.Wrapf(encErr, "listing: unsupported charset %q", charset)
		}
		r = enc.NewDecoder().Reader(f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrapf(err, "listing: read %s", path)
	}
	return string(data), nil
}
