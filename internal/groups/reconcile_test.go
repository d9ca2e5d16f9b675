package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-ldapuser/ldapuser/internal/directory"
	"github.com/go-ldapuser/ldapuser/internal/directory/directorytest"
)

const userBase = "ou=users,dc=example,dc=com"

func seedPosixGroup(f *directorytest.Fake, name, gid string, members ...string) {
	attrs := map[string][]string{
		"objectClass": {"top", "posixGroup"},
		"cn":          {name},
		"gidNumber":   {gid},
	}
	if len(members) > 0 {
		attrs["memberUid"] = members
	}

	f.Put("cn="+name+","+groupBase, attrs)
}

func seedNamedGroup(f *directorytest.Fake, name string, memberDNs ...string) {
	f.Put("cn="+name+","+groupBase, map[string][]string{
		"objectClass": {"top", "groupOfNames"},
		"cn":          {name},
		"member":      memberDNs,
	})
}

func newReconciler(f *directorytest.Fake) *Reconciler {
	return NewReconciler(f, userBase, groupBase)
}

func TestMemberOfMatchesBothVariants(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600", "bob", "alice")
	seedNamedGroup(f, "admins", "uid=bob,"+userBase)
	seedPosixGroup(f, "ops", "1601", "carol")

	got, err := newReconciler(f).MemberOf("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"admins", "devs"}, got)
}

func TestReconcileRoundTrip(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600")
	seedPosixGroup(f, "ops", "1601")
	seedNamedGroup(f, "admins", "uid=root,"+userBase)

	r := newReconciler(f)

	require.NoError(t, r.Reconcile("bob", []string{"devs", "admins"}))

	got, err := r.MemberOf("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"admins", "devs"}, got)

	// the groupOfNames received a DN, the posixGroup a bare name
	assert.Contains(t, f.Entry("cn=admins,"+groupBase)["member"], "uid=bob,"+userBase)
	assert.Contains(t, f.Entry("cn=devs,"+groupBase)["memberUid"], "bob")
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600")

	r := newReconciler(f)

	require.NoError(t, r.Reconcile("bob", []string{"devs"}))

	before := f.Mutations
	require.NoError(t, r.Reconcile("bob", []string{"devs"}))
	assert.Equal(t, before, f.Mutations, "second reconcile must issue no writes")
}

func TestReconcileRemovesLastMember(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600", "bob")
	seedPosixGroup(f, "ops", "1601", "carol")

	require.NoError(t, newReconciler(f).Reconcile("bob", nil))

	assert.Empty(t, f.Entry("cn=devs,"+groupBase)["memberUid"])
	assert.Equal(t, []string{"carol"}, f.Entry("cn=ops,"+groupBase)["memberUid"], "other groups untouched")
}

func TestReconcileNeverTouchesPrimaryGroup(t *testing.T) {
	f := directorytest.New()
	// primary group lists the user explicitly, still must not be reconciled away
	seedPosixGroup(f, "bob", "1600", "bob")
	seedPosixGroup(f, "devs", "1601", "bob")

	require.NoError(t, newReconciler(f).Reconcile("bob", nil))

	assert.Equal(t, []string{"bob"}, f.Entry("cn=bob,"+groupBase)["memberUid"])
	assert.Empty(t, f.Entry("cn=devs,"+groupBase)["memberUid"])
}

func TestReconcileMissingGroupFails(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600")

	err := newReconciler(f).Reconcile("bob", []string{"devs", "ghost"})
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestReconcilePreservesGid(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600", "alice")

	require.NoError(t, newReconciler(f).Reconcile("bob", []string{"devs"}))

	e := f.Entry("cn=devs," + groupBase)
	assert.Equal(t, []string{"1600"}, e["gidNumber"])
	assert.ElementsMatch(t, []string{"alice", "bob"}, e["memberUid"])
}

func TestAddAndRemoveMember(t *testing.T) {
	f := directorytest.New()
	seedNamedGroup(f, "admins", "uid=alice,"+userBase)

	r := newReconciler(f)

	require.NoError(t, r.AddMember("admins", "bob"))

	members, err := r.Members("admins")
	require.NoError(t, err)
	assert.Equal(t, []string{"uid=alice," + userBase, "uid=bob," + userBase}, members)

	require.NoError(t, r.RemoveMember("admins", "alice"))

	members, err = r.Members("admins")
	require.NoError(t, err)
	assert.Equal(t, []string{"uid=bob," + userBase}, members)
}

func TestSetMembers(t *testing.T) {
	f := directorytest.New()
	seedPosixGroup(f, "devs", "1600", "alice", "bob")

	r := newReconciler(f)

	require.NoError(t, r.SetMembers("devs", []string{"carol", "dave"}))

	members, err := r.Members("devs")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "dave"}, members)
}
