package knowledge

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Sources lists where the knowledge base is assembled from. The set is
// fixed at startup; individual fetch failures only reduce coverage.
type Sources struct {
	PDFs []string `yaml:"pdfs"`
	URLs []string `yaml:"urls"`
}

// LoadSources reads a YAML sources file.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read sources file", goerr.V("path", path))
	}

	var src Sources
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, goerr.Wrap(err, "failed to parse sources file", goerr.V("path", path))
	}

	return &src, nil
}
