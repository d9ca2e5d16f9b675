package accounts

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-ldapuser/ldapuser/internal/directory"
	"github.com/go-ldapuser/ldapuser/internal/idalloc"
	"github.com/go-ldapuser/ldapuser/internal/secret"
)

// noneValue is the sentinel stored in optional attributes the operator
// left unset (kept from the directory layout this tool manages).
const noneValue = "None"

// UserSpec is the operator's input for a user create or update. Zero
// values mean "not supplied"; GroupsSet distinguishes an explicitly empty
// --group list from the flag being omitted entirely.
type UserSpec struct {
	Name      string
	UID       int
	GID       int
	Groups    []string
	GroupsSet bool
	Password  string
	Home      string
	Shell     string
	Gecos     string
	Mail      string
	SSHKey    string
	Hosts     []string
}

// CreateUser allocates IDs and credentials, writes the user entry, creates
// the same-named primary posix group and applies any requested secondary
// memberships. The generated password is printed once.
func (m *Manager) CreateUser(spec UserSpec) error {
	uid, err := m.alloc.Allocate(idalloc.User, spec.UID)
	if err != nil {
		return errors.Wrap(err, "uid allocation failed")
	}

	gid, err := m.alloc.Allocate(idalloc.Group, spec.GID)
	if err != nil {
		return errors.Wrap(err, "gid allocation failed")
	}

	plaintext, encoded, err := secret.Generate(spec.Password)
	if err != nil {
		return err
	}

	home := spec.Home
	if home == "" {
		home = "/home/" + spec.Name
	}

	shell := spec.Shell
	if shell == "" {
		shell = "/bin/bash"
	}

	mail := spec.Mail
	if mail == "" {
		mail = fmt.Sprintf("%s@%s", spec.Name, m.cfg.MailDomain)
	}

	gecos := spec.Gecos
	if gecos == "" {
		gecos = spec.Name
	}

	sshkey, err := loadSSHKey(spec.SSHKey)
	if err != nil {
		return err
	}

	hosts, err := loadHosts(spec.Hosts)
	if err != nil {
		return err
	}

	record := []directory.Attr{
		{Name: "objectClass", Values: []string{
			"top", "inetOrgPerson", "posixAccount", "shadowAccount", "hostObject", "ldapPublicKey",
		}},
		{Name: "cn", Values: []string{spec.Name}},
		{Name: "sn", Values: []string{spec.Name}},
		{Name: "givenName", Values: []string{gecos}},
		{Name: "uid", Values: []string{spec.Name}},
		{Name: "uidNumber", Values: []string{strconv.Itoa(uid)}},
		{Name: "gidNumber", Values: []string{strconv.Itoa(gid)}},
		{Name: "homeDirectory", Values: []string{home}},
		{Name: "mail", Values: []string{mail}},
		{Name: "loginShell", Values: []string{shell}},
		{Name: "userPassword", Values: []string{encoded}},
		{Name: "sshPublicKey", Values: []string{sshkey}},
		{Name: "host", Values: hosts},
	}

	if err = m.client.Add(m.userDN(spec.Name), record); err != nil {
		if errors.Is(err, directory.ErrAlreadyExists) {
			return errors.Wrapf(err, "user %q already exists", spec.Name)
		}

		return errors.Wrapf(err, "failed to create user %q", spec.Name)
	}

	log.Info().Str("user", spec.Name).Int("uid", uid).Int("gid", gid).Msg("user created")
	fmt.Fprintf(m.out, "User '%s' created with password: %s\n", spec.Name, plaintext)

	// primary group, same name, same numeric id
	if err = m.CreateGroup(GroupSpec{Name: spec.Name, GID: gid}); err != nil {
		return err
	}

	if len(spec.Groups) > 0 {
		if err = m.membership.Reconcile(spec.Name, spec.Groups); err != nil {
			return err
		}
	}

	return nil
}

// UpdateUser re-reads the existing entry and rewrites every attribute as a
// full replacement, substituting only the values the operator supplied.
// Membership is reconciled only when a group list was given at all.
func (m *Manager) UpdateUser(spec UserSpec) error {
	userDN := m.userDN(spec.Name)

	entries, err := m.client.Search(userDN, "(objectClass=posixAccount)", nil)
	if err != nil && !errors.Is(err, directory.ErrNotFound) {
		return errors.Wrapf(err, "failed to read user %q", spec.Name)
	}

	if len(entries) == 0 {
		return errors.Wrapf(directory.ErrNotFound, "no such user %q", spec.Name)
	}

	plaintext := ""

	replace, err := m.userReplacements(spec, &plaintext)
	if err != nil {
		return err
	}

	entry := entries[0]
	record := make([]directory.Attr, 0, len(entry.Attrs))

	for _, name := range sortedAttrNames(entry.Attrs) {
		values := entry.Attrs[name]
		if v, ok := replace[name]; ok {
			values = v
		}

		record = append(record, directory.Attr{Name: name, Values: values})
	}

	if err = m.client.ModifyReplace(userDN, record); err != nil {
		if errors.Is(err, directory.ErrConstraintViolation) {
			return errors.Wrapf(err, "user %q has a duplicate attribute value", spec.Name)
		}

		return errors.Wrapf(err, "failed to update user %q", spec.Name)
	}

	log.Info().Str("user", spec.Name).Msg("user updated")

	if plaintext != "" {
		fmt.Fprintf(m.out, "User '%s' updated with password: %s\n", spec.Name, plaintext)
	}

	if spec.GroupsSet {
		if err = m.membership.Reconcile(spec.Name, spec.Groups); err != nil {
			return err
		}
	}

	return nil
}

// userReplacements builds the attribute substitutions an update applies.
// plaintext receives the cleartext when a new password was encoded.
func (m *Manager) userReplacements(spec UserSpec, plaintext *string) (map[string][]string, error) {
	replace := make(map[string][]string)

	if spec.UID > 0 {
		replace["uidNumber"] = []string{strconv.Itoa(spec.UID)}
	}

	if spec.GID > 0 {
		replace["gidNumber"] = []string{strconv.Itoa(spec.GID)}
	}

	if spec.Password != "" {
		c, encoded, err := secret.Generate(spec.Password)
		if err != nil {
			return nil, err
		}

		*plaintext = c
		replace["userPassword"] = []string{encoded}
	}

	if spec.Home != "" {
		replace["homeDirectory"] = []string{spec.Home}
	}

	if spec.Shell != "" {
		replace["loginShell"] = []string{spec.Shell}
	}

	if spec.Gecos != "" {
		replace["givenName"] = []string{spec.Gecos}
	}

	if spec.Mail != "" {
		replace["mail"] = []string{spec.Mail}
	}

	if spec.SSHKey != "" {
		key, err := loadSSHKey(spec.SSHKey)
		if err != nil {
			return nil, err
		}

		replace["sshPublicKey"] = []string{key}
	}

	if len(spec.Hosts) > 0 {
		hosts, err := loadHosts(spec.Hosts)
		if err != nil {
			return nil, err
		}

		replace["host"] = hosts
	}

	return replace, nil
}

// DeleteUser removes the user entry and its primary group. A primary group
// that is already gone is tolerated.
func (m *Manager) DeleteUser(name string) error {
	if err := m.client.Delete(m.userDN(name)); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return errors.Wrapf(err, "user %q doesn't exist", name)
		}

		return errors.Wrapf(err, "failed to delete user %q", name)
	}

	log.Info().Str("user", name).Msg("user deleted")

	if err := m.client.Delete(m.groupDN(name)); err != nil {
		if !errors.Is(err, directory.ErrNotFound) {
			return errors.Wrapf(err, "failed to delete primary group of %q", name)
		}

		log.Debug().Str("group", name).Msg("primary group already absent")
	}

	return nil
}

// ShowUser renders one user, or every user under the base DN when name is
// empty, including the groups each user is a member of.
func (m *Manager) ShowUser(name string) error {
	baseDN := m.cfg.UserBaseDN
	if name != "" {
		baseDN = m.userDN(name)
	}

	entries, err := m.client.Search(baseDN, "(objectClass=posixAccount)", nil)
	if err != nil && !errors.Is(err, directory.ErrNotFound) {
		return errors.Wrap(err, "user search failed")
	}

	if len(entries) == 0 {
		if name == "" {
			return errors.Wrap(directory.ErrNotFound, "no users found")
		}

		return errors.Wrapf(directory.ErrNotFound, "user not found %q", name)
	}

	for idx, entry := range entries {
		member, errScan := m.membership.MemberOf(entry.GetValue("uid"))
		if errScan != nil {
			return errScan
		}

		attrs := make(map[string][]string, len(entry.Attrs)+1)
		for k, v := range entry.Attrs {
			attrs[k] = v
		}

		attrs["group"] = member

		renderEntry(m.out, idx, directory.RDNValue(entry.DN, "uid"), entry.DN, attrs)
	}

	return nil
}

func sortedAttrNames(attrs map[string][]string) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
