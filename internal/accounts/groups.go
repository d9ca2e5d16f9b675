package accounts

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-ldapuser/ldapuser/internal/directory"
	"github.com/go-ldapuser/ldapuser/internal/groups"
	"github.com/go-ldapuser/ldapuser/internal/idalloc"
)

// GroupSpec is the operator's input for a group create or update.
type GroupSpec struct {
	Name         string
	GID          int
	GroupOfNames bool
	Members      []string
}

// CreateGroup writes a new group entry. The default is a posixGroup with an
// allocated (or validated explicit) gidNumber; --groupofnames creates a
// groupOfNames holding member DNs instead, with no numeric ID at all.
func (m *Manager) CreateGroup(spec GroupSpec) error {
	var record []directory.Attr

	if spec.GroupOfNames {
		members := make([]string, 0, len(spec.Members))
		for _, u := range spec.Members {
			members = append(members, m.userDN(u))
		}

		record = groups.Record(groups.GroupOfNames, spec.Name, "", members)
	} else {
		gid, err := m.alloc.Allocate(idalloc.Group, spec.GID)
		if err != nil {
			return errors.Wrap(err, "gid allocation failed")
		}

		record = groups.Record(groups.PosixGroup, spec.Name, strconv.Itoa(gid), spec.Members)
	}

	if err := m.client.Add(m.groupDN(spec.Name), record); err != nil {
		if errors.Is(err, directory.ErrAlreadyExists) {
			return errors.Wrapf(err, "group %q already exists", spec.Name)
		}

		return errors.Wrapf(err, "failed to create group %q", spec.Name)
	}

	log.Info().Str("group", spec.Name).Str("type", recordType(spec)).Msg("group created")

	return nil
}

// UpdateGroup rewrites an existing posix group entry in full, substituting
// the gidNumber when one was supplied.
func (m *Manager) UpdateGroup(name string, gid int) error {
	groupDN := m.groupDN(name)

	entries, err := m.client.Search(groupDN, "(objectClass=posixGroup)", nil)
	if err != nil && !errors.Is(err, directory.ErrNotFound) {
		return errors.Wrapf(err, "failed to read group %q", name)
	}

	if len(entries) == 0 {
		return errors.Wrapf(directory.ErrNotFound, "group not found %q", name)
	}

	entry := entries[0]
	record := make([]directory.Attr, 0, len(entry.Attrs))

	for _, attr := range sortedAttrNames(entry.Attrs) {
		values := entry.Attrs[attr]
		if attr == "gidNumber" && gid > 0 {
			values = []string{strconv.Itoa(gid)}
		}

		record = append(record, directory.Attr{Name: attr, Values: values})
	}

	if err = m.client.ModifyReplace(groupDN, record); err != nil {
		return errors.Wrapf(err, "failed to update group %q", name)
	}

	log.Info().Str("group", name).Msg("group updated")

	return nil
}

// DeleteGroup removes a group entry.
func (m *Manager) DeleteGroup(name string) error {
	if err := m.client.Delete(m.groupDN(name)); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return errors.Wrapf(err, "group %q doesn't exist", name)
		}

		return errors.Wrapf(err, "failed to delete group %q", name)
	}

	log.Info().Str("group", name).Msg("group deleted")

	return nil
}

// ShowGroup renders one group, or every group under the base DN when name
// is empty.
func (m *Manager) ShowGroup(name string) error {
	baseDN := m.cfg.GroupBaseDN
	if name != "" {
		baseDN = m.groupDN(name)
	}

	entries, err := m.client.Search(baseDN,
		"(|(objectClass=posixGroup)(objectClass=groupOfNames))", nil)
	if err != nil && !errors.Is(err, directory.ErrNotFound) {
		return errors.Wrap(err, "group search failed")
	}

	if len(entries) == 0 {
		return errors.Wrapf(directory.ErrNotFound, "group not found %q", name)
	}

	for idx, entry := range entries {
		renderEntry(m.out, idx, directory.RDNValue(entry.DN, "cn"), entry.DN, entry.Attrs)
	}

	return nil
}

// AddMember adds a user to a group, whichever schema the group uses.
func (m *Manager) AddMember(group, user string) error {
	return m.membership.AddMember(group, user)
}

// RemoveMember removes a user from a group.
func (m *Manager) RemoveMember(group, user string) error {
	return m.membership.RemoveMember(group, user)
}

// SetMembers replaces the entire member list of a group, then lists it.
func (m *Manager) SetMembers(group string, users []string) error {
	if err := m.membership.SetMembers(group, users); err != nil {
		return err
	}

	log.Info().Str("group", group).Msg("group members updated")

	return m.ShowMembers(group)
}

// ShowMembers lists the members of a group, one indexed line per member.
func (m *Manager) ShowMembers(group string) error {
	members, err := m.membership.Members(group)
	if err != nil {
		return err
	}

	for idx, member := range members {
		fmt.Fprintf(m.out, "[%d] '%s'\n", idx, member)
	}

	return nil
}

func recordType(spec GroupSpec) string {
	if spec.GroupOfNames {
		return groups.GroupOfNames.String()
	}

	return groups.PosixGroup.String()
}
