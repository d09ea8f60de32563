package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	DirName           = ".sish"
)

// Color modes.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt   string  `json:"prompt" validate:"required"`
	Color    string  `json:"color" validate:"oneof=always auto never"`
	Quoting  bool    `json:"quoting"`
	History  History `json:"history"`
	EventLog string  `json:"event_log"`
}

type History struct {
	Size int    `json:"size" validate:"gte=1,lte=100000"`
	File string `json:"file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// HistoryEnabled reports whether history is persisted between sessions.
func (c *Configuration) HistoryEnabled() bool {
	return c.History.File != ""
}

// HistoryFs returns the filesystem the history file lives on along with its
// path inside it.
func (c *Configuration) HistoryFs() (afero.Fs, string) {
	return c.fs(), c.History.File
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// EventLogEnabled reports whether events are recorded.
func (c *Configuration) EventLogEnabled() bool {
	return c.EventLog != ""
}

// Default returns the built-in configuration backed by an in-memory
// filesystem.
func Default() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
