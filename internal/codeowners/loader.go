package codeowners

import (
	"fmt"
	"os"
	"path/filepath"
)

// Locations are the CODEOWNERS paths looked up, in order, relative to the
// repository root.
var Locations = []string{
	filepath.Join(".github", "CODEOWNERS"),
	"CODEOWNERS",
	filepath.Join("docs", "CODEOWNERS"),
}

// Load reads the first CODEOWNERS file found under root. A repository without
// one yields no rules and an empty path.
func Load(root string) ([]Rule, string, error) {
	for _, loc := range Locations {
		path := filepath.Join(root, loc)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, "", fmt.Errorf("error reading %s: %w", path, err)
		}
		return ParseRules(string(data)), path, nil
	}
	return nil, "", nil
}
