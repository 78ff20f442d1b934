package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	AppLogName        = "app.log"

	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs
	dir      string

	// Motd is printed once when an interactive session starts.
	Motd string `json:"motd"`

	// Prompt is a PS1 style prompt template, expanded per line.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile names the readline history file, relative to the
	// configuration directory.
	HistoryFile string `json:"history_file" validate:"required"`

	// EventLog names the JSON lines event log, relative to the
	// configuration directory.
	EventLog string `json:"event_log" validate:"required"`

	Color string `json:"color" validate:"oneof=always auto never"`
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

// ColorEnabled reports whether output should be colorized given
// whether the session is attached to a terminal.
func (c *Configuration) ColorEnabled(isTerminal bool) bool {
	switch c.Color {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		return isTerminal
	}
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// HistoryPath is the absolute path of the readline history file.
func (c *Configuration) HistoryPath() string {
	return filepath.Join(c.dir, c.HistoryFile)
}

// OpenEventLog opens the shell event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the shell event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// defaultConfig returns the embedded configuration. It panics on
// failure because the embedded data is validated by tests and should
// never fail to parse at runtime.
func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the embedded configuration rooted at the current
// directory, for running without an initialized configuration.
func Default() *Configuration {
	out := defaultConfig()
	out.dir = "."
	out.configFs = afero.NewBasePathFs(afero.NewOsFs(), ".")
	return out
}
