package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteToFile encodes the result (see Encode) and writes it to path with a
// trailing newline. Parent directories are created as needed.
func (r Result) WriteToFile(path string, canonical bool) error {
	data, err := r.Encode(canonical)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}
