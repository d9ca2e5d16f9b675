package directorytest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ldapuser/ldapuser/internal/directory"
)

const base = "dc=example,dc=com"

func TestSearchFilters(t *testing.T) {
	f := New()
	f.Put("uid=alice,ou=users,"+base, map[string][]string{
		"objectClass": {"top", "posixAccount"},
		"uid":         {"alice"},
	})
	f.Put("cn=devs,ou=groups,"+base, map[string][]string{
		"objectClass": {"top", "posixGroup"},
		"cn":          {"devs"},
	})
	f.Put("cn=admins,ou=groups,"+base, map[string][]string{
		"objectClass": {"top", "groupOfNames"},
		"cn":          {"admins"},
	})

	all, err := f.Search(base, "(objectClass=*)", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	posix, err := f.Search(base, "(objectClass=posixGroup)", nil)
	require.NoError(t, err)
	require.Len(t, posix, 1)
	assert.Equal(t, "cn=devs,ou=groups,"+base, posix[0].DN)

	either, err := f.Search(base, "(|(objectClass=posixGroup)(objectClass=groupOfNames))", nil)
	require.NoError(t, err)
	assert.Len(t, either, 2)

	scoped, err := f.Search("ou=groups,"+base, "(objectClass=*)", nil)
	require.NoError(t, err)
	assert.Len(t, scoped, 2)
}

func TestSearchProjection(t *testing.T) {
	f := New()
	f.Put("uid=alice,"+base, map[string][]string{
		"objectClass": {"top", "posixAccount"},
		"uid":         {"alice"},
		"uidNumber":   {"1500"},
	})

	got, err := f.Search("uid=alice,"+base, "(objectClass=*)", []string{"uidNumber", "memberUid"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"1500"}, got[0].GetValues("uidNumber"))
	assert.False(t, got[0].HasAttr("uid"))
	assert.False(t, got[0].HasAttr("memberUid"))
}

func TestSearchMissingBase(t *testing.T) {
	f := New()

	_, err := f.Search("uid=ghost,"+base, "(objectClass=*)", nil)
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestMutationTracking(t *testing.T) {
	f := New()

	require.NoError(t, f.Add("uid=alice,"+base, []directory.Attr{
		{Name: "uid", Values: []string{"alice"}},
		{Name: "empty", Values: nil},
	}))
	assert.Equal(t, 1, f.Mutations)

	assert.ErrorIs(t, f.Add("uid=alice,"+base, nil), directory.ErrAlreadyExists)

	require.NoError(t, f.ModifyReplace("uid=alice,"+base, []directory.Attr{
		{Name: "uid", Values: []string{"alice2"}},
	}))
	assert.Equal(t, 2, f.Mutations)

	require.NoError(t, f.Delete("uid=alice,"+base))
	assert.ErrorIs(t, f.Delete("uid=alice,"+base), directory.ErrNotFound)
}

func TestModifyReplaceEmptyRemovesAttribute(t *testing.T) {
	f := New()
	f.Put("cn=devs,"+base, map[string][]string{
		"cn":        {"devs"},
		"memberUid": {"alice"},
	})

	require.NoError(t, f.ModifyReplace("cn=devs,"+base, []directory.Attr{
		{Name: "memberUid", Values: nil},
	}))

	assert.NotContains(t, f.Entry("cn=devs,"+base), "memberUid")
}
