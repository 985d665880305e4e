/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package log

import (
	"fmt"
	"strings"
)

const (
	debugLevel   = "debug"
	infoLevel    = "info"
	warningLevel = "warn"
	errorLevel   = "error"
	offLevel     = "off"
)

const (
	logfmtFormat = "logfmt"
	jsonFormat   = "json"
)

// Config represents the logger configuration.
// The zero value logs 'info' and above in logfmt to the standard error.
type Config struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogPath string `yaml:"log_path"`
}

type configProxyType Config

// UnmarshalYAML satisfies Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var p configProxyType
	if err := unmarshal(&p); err != nil {
		return err
	}
	cfg := Config(p)
	if err := cfg.Validate(); err != nil {
		return err
	}
	*c = cfg
	return nil
}

// Validate checks level and format values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", debugLevel, infoLevel, warningLevel, "warning", errorLevel, offLevel:
	default:
		return fmt.Errorf("log: unrecognized log level: %s", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", logfmtFormat, jsonFormat:
	default:
		return fmt.Errorf("log: unrecognized log format: %s", c.Format)
	}
	return nil
}

// LevelName returns the effective level name.
func (c Config) LevelName() string {
	switch lv := strings.ToLower(c.Level); lv {
	case "":
		return infoLevel
	case "warning":
		return warningLevel
	default:
		return lv
	}
}
