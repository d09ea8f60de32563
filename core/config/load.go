package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory, which must exist. Values
// missing from the file, or a missing file, fall back to the defaults.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	osFs := afero.NewOsFs()
	if _, err := osFs.Stat(path); err != nil {
		return nil, errors.Wrap(err, "unable to open configuration directory")
	}

	return LoadFs(afero.NewBasePathFs(osFs, path))
}

// LoadFs loads the configuration from the root of configFs.
func LoadFs(configFs afero.Fs) (*Configuration, error) {
	out := defaultConfig()
	out.configFs = configFs

	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	switch {
	case os.IsNotExist(err):
		return out, nil
	case err != nil:
		return nil, errors.Wrap(err, "unable to read configuration")
	}

	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", ConfigurationName)
	}
	if err := out.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", ConfigurationName)
	}
	return out, nil
}
