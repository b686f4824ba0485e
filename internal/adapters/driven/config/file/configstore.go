package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// Load reads a YAML configuration file into a domain.Config. Options
// omitted from the file keep their documented defaults. The result is
// validated before it is returned; configuration errors are hard
// failures raised before any input file is touched.
//
// An empty path returns the defaults without touching the filesystem.
func Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("%w: read config file %s: %v",
			domain.ErrInvalidConfig, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%w: parse config file %s: %v",
			domain.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}
