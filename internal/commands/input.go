package commands

import (
	"fmt"
	"path/filepath"

	"github.com/halfsies-dev/halfsies/internal/importer"
)

// inputFile returns arg when given, otherwise the newest CSV in dir.
func inputFile(arg, dir string) (string, error) {
	if arg != "" {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", fmt.Errorf("resolving path: %w", err)
		}
		return abs, nil
	}
	latest, err := importer.Latest(dir)
	if err != nil {
		return "", fmt.Errorf("finding input file: %w", err)
	}
	return latest.Path, nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
