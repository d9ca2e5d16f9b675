package config

import (
	"errors"
)

var (
	// ErrServerCanNotBeEmpty error if config ldap.server is empty.
	ErrServerCanNotBeEmpty = errors.New("toml config ldap.server can not be empty")

	// ErrUserBaseDNCanNotBeEmpty error if config user.basedn is empty.
	ErrUserBaseDNCanNotBeEmpty = errors.New("toml config user.basedn can not be empty")

	// ErrGroupBaseDNCanNotBeEmpty error if config group.basedn is empty.
	ErrGroupBaseDNCanNotBeEmpty = errors.New("toml config group.basedn can not be empty")

	// ErrInvalidIDRange error if a min bound is not below its max bound.
	ErrInvalidIDRange = errors.New("toml config user id ranges must have min < max")
)
