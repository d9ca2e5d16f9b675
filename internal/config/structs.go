package config

import (
	"github.com/go-ldapuser/ldapuser/internal/logger"
)

// Config overall data structure.
type Config struct {
	LDAP  LDAP       `toml:"ldap"`
	User  User       `toml:"user"`
	Group Group      `toml:"group"`
	Log   logger.Log `toml:"log"`
}

// LDAP implements the directory connection settings.
type LDAP struct {
	Server     string `toml:"server"`     // LDAP URL, ldap:// or ldaps://
	BindDN     string `toml:"binddn"`     // DN to bind with
	BindPW     string `toml:"bindpw"`     // password for the bind DN
	Timeout    int    `toml:"timeout"`    // network timeout in seconds, 0 = library default
	StartTLS   bool   `toml:"starttls"`   // upgrade the connection with StartTLS
	SkipVerify bool   `toml:"skipverify"` // skip TLS certificate verification
}

// User implements the user subtree settings and uid/gid allocation bounds.
type User struct {
	BaseDN     string `toml:"basedn"`
	MinUID     int    `toml:"minuid"`
	MaxUID     int    `toml:"maxuid"`
	MinGID     int    `toml:"mingid"`
	MaxGID     int    `toml:"maxgid"`
	MailDomain string `toml:"maildomain"` // default mail domain for new users
}

// Group implements the group subtree settings.
type Group struct {
	BaseDN string `toml:"basedn"`
}
