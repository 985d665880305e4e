/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package config

import "errors"

const (
	// StdStream selects the process standard input or output.
	StdStream = "-"

	defaultMaxStanzaSize = 32768
)

// Transport represents a stream transport configuration.
type Transport struct {
	Input         string
	Output        string
	MaxStanzaSize int
}

type transportProxyType struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	MaxStanzaSize int    `yaml:"max_stanza_size"`
}

// UnmarshalYAML satisfies Unmarshaler interface.
func (t *Transport) UnmarshalYAML(unmarshal func(interface{}) error) error {
	p := transportProxyType{}
	if err := unmarshal(&p); err != nil {
		return err
	}
	if p.MaxStanzaSize < 0 {
		return errors.New("config.Transport: max_stanza_size must not be negative")
	}
	t.Input = p.Input
	t.Output = p.Output
	t.MaxStanzaSize = p.MaxStanzaSize
	t.applyDefaults()
	return nil
}

// applyDefaults fills unset values: both endpoints default to the
// standard streams.
func (t *Transport) applyDefaults() {
	if len(t.Input) == 0 {
		t.Input = StdStream
	}
	if len(t.Output) == 0 {
		t.Output = StdStream
	}
	if t.MaxStanzaSize == 0 {
		t.MaxStanzaSize = defaultMaxStanzaSize
	}
}
