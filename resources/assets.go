package resources

import (
	"embed"
	"fmt"
	"sync"
)

const templateDir = "templates/"

//go:embed templates/*.yaml
var templateFS embed.FS

var templateCache sync.Map

// Template returns the contents of an embedded template file.
func Template(fileName string) ([]byte, error) {
	path := templateDir + fileName
	if cached, ok := templateCache.Load(path); ok {
		return cached.([]byte), nil
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", path, err)
	}

	templateCache.Store(path, data)
	return data, nil
}
