/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package config

import (
	"bytes"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/simplexmpp/simplexmpp/log"
	"gopkg.in/yaml.v2"
)

// Config represents a global configuration.
type Config struct {
	Logger    log.Config `yaml:"logger"`
	Session   Session    `yaml:"session"`
	Transport Transport  `yaml:"transport"`
}

// Load loads global configuration from a specified file.
func Load(configFile string) (*Config, error) {
	b, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", configFile)
	}
	cfg, err := FromBuffer(bytes.NewBuffer(b))
	if err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", configFile)
	}
	return cfg, nil
}

// FromBuffer loads global configuration from a specified byte buffer.
func FromBuffer(buf *bytes.Buffer) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(buf.Bytes(), cfg); err != nil {
		return nil, err
	}
	if cfg.Session.JID == nil {
		return nil, errors.New("config: session jid not specified")
	}
	// sections left out of the document are never unmarshaled
	cfg.Transport.applyDefaults()
	return cfg, nil
}
