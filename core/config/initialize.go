package config

import (
	"log"
	"os"
	"path/filepath"
)

// Initialize writes the default configuration into the directory if
// none exists yet, then loads whatever is there. Existing files are
// never overwritten.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)

	switch _, err := os.Stat(configPath); {
	case os.IsNotExist(err):
		logger.Printf("Creating %s", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		logger.Printf("Found existing %s", configPath)
	}

	return Load(path)
}
