package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir, creating it if needed.
// An existing configuration is never overwritten.
func Initialize(dir string, logger *log.Logger) error {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := osFs.Stat(configPath); {
	case err == nil:
		return fmt.Errorf("%s already exists, remove it to re-initialize", configPath)
	case !os.IsNotExist(err):
		return err
	}

	logger.Printf("Writing %s\n", configPath)
	return afero.WriteFile(osFs, configPath, defaultConfigData, 0600)
}
