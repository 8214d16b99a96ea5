package cli

import (
	"errors"
	"fmt"
	"os"
)

// loadScript reads the logic script. The text is passed to the store
// verbatim; syntax errors surface on the first tick.
func loadScript(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("script not found: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("error accessing script: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("script is a directory: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}
