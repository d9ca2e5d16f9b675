// Package config handles input from the ldapuser TOML configuration file.
package config

import (
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// DefaultPath is where the configuration is read from when no --config
// flag is given.
const DefaultPath = "/etc/ldapuser/ldapuser.toml"

const (
	defaultMinID      = 1500
	defaultMaxID      = 2000
	defaultMailDomain = "example.com"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}

	// override it from env
	if jsonConfigEnv := os.Getenv("LDAPUSER_CONFIG_JSON"); jsonConfigEnv != "" {
		if err := json.Unmarshal([]byte(jsonConfigEnv), &c); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge config from environment")
		}
	}

	applyDefaults(&c)

	return c, validate(c)
}

func applyDefaults(c *Config) {
	if c.User.MinUID == 0 {
		c.User.MinUID = defaultMinID
	}

	if c.User.MaxUID == 0 {
		c.User.MaxUID = defaultMaxID
	}

	if c.User.MinGID == 0 {
		c.User.MinGID = defaultMinID
	}

	if c.User.MaxGID == 0 {
		c.User.MaxGID = defaultMaxID
	}

	if c.User.MailDomain == "" {
		c.User.MailDomain = defaultMailDomain
	}
}

// validate the minimal settings every command needs before a connection
// attempt is made.
func validate(c Config) error {
	invalidErrMessage := "invalid config"

	if c.LDAP.Server == "" {
		return errors.Wrap(ErrServerCanNotBeEmpty, invalidErrMessage)
	}

	if c.User.BaseDN == "" {
		return errors.Wrap(ErrUserBaseDNCanNotBeEmpty, invalidErrMessage)
	}

	if c.Group.BaseDN == "" {
		return errors.Wrap(ErrGroupBaseDNCanNotBeEmpty, invalidErrMessage)
	}

	if c.User.MinUID >= c.User.MaxUID || c.User.MinGID >= c.User.MaxGID {
		return errors.Wrap(ErrInvalidIDRange, invalidErrMessage)
	}

	return nil
}
