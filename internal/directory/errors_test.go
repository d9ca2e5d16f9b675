package directory

import (
	"errors"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		code uint16
		want error
	}{
		{name: "no such object", code: ldap.LDAPResultNoSuchObject, want: ErrNotFound},
		{name: "entry already exists", code: ldap.LDAPResultEntryAlreadyExists, want: ErrAlreadyExists},
		{name: "attribute or value exists", code: ldap.LDAPResultAttributeOrValueExists, want: ErrConstraintViolation},
		{name: "constraint violation", code: ldap.LDAPResultConstraintViolation, want: ErrConstraintViolation},
		{name: "object class violation", code: ldap.LDAPResultObjectClassViolation, want: ErrConstraintViolation},
		{name: "network error", code: ldap.ErrorNetwork, want: ErrUnavailable},
		{name: "server busy", code: ldap.LDAPResultBusy, want: ErrUnavailable},
		{name: "server unavailable", code: ldap.LDAPResultUnavailable, want: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(ldap.NewError(tt.code, errors.New("boom")))
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslatePassesThroughUnknownErrors(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, translate(boom))
	assert.NoError(t, translate(nil))
}

func TestRDNValue(t *testing.T) {
	assert.Equal(t, "devs", RDNValue("cn=devs,ou=groups,dc=example,dc=com", "cn"))
	assert.Equal(t, "alice", RDNValue("uid=alice,ou=users,dc=example,dc=com", "uid"))
	assert.Equal(t, "", RDNValue("ou=groups,dc=example,dc=com", "cn"))
	assert.Equal(t, "devs", RDNValue("CN=devs,ou=groups,dc=example,dc=com", "cn"))
	assert.Equal(t, "", RDNValue("", "cn"))
}
