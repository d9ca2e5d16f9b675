package directory

import (
	"errors"

	"github.com/go-ldap/ldap/v3"
)

var (
	// ErrNotFound is returned when the addressed entry does not exist.
	ErrNotFound = errors.New("no such entry")

	// ErrAlreadyExists is returned when creating an entry whose DN is taken.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrConstraintViolation is returned when the server rejects a write
	// because of a schema constraint, e.g. a duplicate attribute value.
	ErrConstraintViolation = errors.New("attribute constraint violated")

	// ErrUnavailable is returned when the directory server can not be
	// reached or the connection was lost.
	ErrUnavailable = errors.New("directory server unavailable")
)

// translate maps go-ldap result codes onto the package error taxonomy so
// callers can branch with errors.Is instead of inspecting LDAP codes.
// Errors outside the taxonomy pass through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject):
		return ErrNotFound
	case ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists):
		return ErrAlreadyExists
	case ldap.IsErrorWithCode(err, ldap.LDAPResultAttributeOrValueExists),
		ldap.IsErrorWithCode(err, ldap.LDAPResultConstraintViolation),
		ldap.IsErrorWithCode(err, ldap.LDAPResultObjectClassViolation):
		return ErrConstraintViolation
	case ldap.IsErrorWithCode(err, ldap.ErrorNetwork),
		ldap.IsErrorWithCode(err, ldap.LDAPResultBusy),
		ldap.IsErrorWithCode(err, ldap.LDAPResultUnavailable):
		return ErrUnavailable
	}

	return err
}
