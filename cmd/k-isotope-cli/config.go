package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the optional YAML configuration file. Every field is
// optional; environment variables and flags override anything set here.
type FileConfig struct {
	MasterKey string `yaml:"master_key"`
	Timestamp string `yaml:"timestamp"`
	Salt      string `yaml:"salt"`
	Format    string `yaml:"format"`
	Verbose   bool   `yaml:"verbose"`
	Timing    bool   `yaml:"timing"`
}

// configFilePaths returns candidate configuration locations in priority order.
func configFilePaths() []string {
	paths := []string{".k-isotope.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "k-isotope", "config.yaml"))
	}
	return paths
}

// loadFileConfig reads the first configuration file that exists and overlays
// KISOTOPE_* environment variables. A missing file is not an error; a present
// but unparseable file is reported and skipped.
func loadFileConfig() FileConfig {
	var fc FileConfig
	for _, path := range configFilePaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring config file %s: %v\n", path, err)
			fc = FileConfig{}
			continue
		}
		break
	}
	applyEnv(&fc)
	return fc
}

func applyEnv(fc *FileConfig) {
	if v := os.Getenv("KISOTOPE_MASTER_KEY"); v != "" {
		fc.MasterKey = v
	}
	if v := os.Getenv("KISOTOPE_TIMESTAMP"); v != "" {
		fc.Timestamp = v
	}
	if v := os.Getenv("KISOTOPE_SALT"); v != "" {
		fc.Salt = v
	}
}
