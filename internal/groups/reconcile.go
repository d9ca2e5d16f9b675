package groups

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-ldapuser/ldapuser/internal/directory"
)

// Reconciler keeps the directory's group membership state in line with a
// user's desired group list. Membership lives inside the group entries,
// so every operation starts from a fresh scan of the group subtree.
type Reconciler struct {
	client      directory.Client
	userBaseDN  string
	groupBaseDN string
}

// NewReconciler returns a reconciler bound to the given directory client
// and base DNs.
func NewReconciler(client directory.Client, userBaseDN, groupBaseDN string) *Reconciler {
	return &Reconciler{
		client:      client,
		userBaseDN:  userBaseDN,
		groupBaseDN: groupBaseDN,
	}
}

// Reconcile brings the set of groups containing user to exactly targets.
// The user's primary group (the group sharing the user's name) is never
// touched, and groups in targets must already exist — reconciliation never
// creates groups. A reconcile against the current state writes nothing.
func (r *Reconciler) Reconcile(user string, targets []string) error {
	current, err := r.MemberOf(user)
	if err != nil {
		return err
	}

	want := make(map[string]struct{}, len(targets))

	for _, g := range targets {
		if g == "" {
			continue
		}

		want[g] = struct{}{}
	}

	var toAdd, toRemove []string

	for g := range want {
		if !contains(current, g) {
			toAdd = append(toAdd, g)
		}
	}

	for _, g := range current {
		if g == user {
			continue // primary group is not reconciled
		}

		if _, ok := want[g]; !ok {
			toRemove = append(toRemove, g)
		}
	}

	sort.Strings(toAdd)
	sort.Strings(toRemove)

	for _, g := range toRemove {
		if err = r.RemoveMember(g, user); err != nil {
			return err
		}
	}

	for _, g := range toAdd {
		if err = r.AddMember(g, user); err != nil {
			return err
		}
	}

	return nil
}

// MemberOf returns the sorted names of every group that lists user as a
// member, by bare name or by DN depending on the group's variant.
func (r *Reconciler) MemberOf(user string) ([]string, error) {
	entries, err := r.client.Search(r.groupBaseDN, "(objectClass=*)", []string{"memberUid", "member"})
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to scan groups")
	}

	userDN := r.userDN(user)

	var names []string

	for _, e := range entries {
		name := directory.RDNValue(e.DN, "cn")
		if name == "" {
			continue // the base container itself, or not a group entry
		}

		if contains(e.GetValues("memberUid"), user) || contains(e.GetValues("member"), userDN) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names, nil
}

// AddMember adds user to the named group, writing the group's full
// replacement member set. The group must already exist.
func (r *Reconciler) AddMember(group, user string) error {
	groupDN := r.groupDN(group)

	s, err := probe(r.client, groupDN)
	if err != nil {
		return errors.Wrapf(err, "can't add %q to group %q", user, group)
	}

	members := append(s.members, r.memberValue(s.variant, user))

	if err = r.client.ModifyReplace(groupDN, Record(s.variant, group, s.gid, members)); err != nil {
		return errors.Wrapf(err, "failed to add %q to group %q", user, group)
	}

	log.Info().Str("user", user).Str("group", group).Msg("added member to group")

	return nil
}

// RemoveMember removes user from the named group.
func (r *Reconciler) RemoveMember(group, user string) error {
	groupDN := r.groupDN(group)

	s, err := probe(r.client, groupDN)
	if err != nil {
		return errors.Wrapf(err, "can't remove %q from group %q", user, group)
	}

	value := r.memberValue(s.variant, user)
	members := make([]string, 0, len(s.members))

	for _, m := range s.members {
		if m != value {
			members = append(members, m)
		}
	}

	if err = r.client.ModifyReplace(groupDN, Record(s.variant, group, s.gid, members)); err != nil {
		return errors.Wrapf(err, "failed to remove %q from group %q", user, group)
	}

	log.Info().Str("user", user).Str("group", group).Msg("removed member from group")

	return nil
}

// SetMembers replaces the entire member list of the named group.
func (r *Reconciler) SetMembers(group string, users []string) error {
	groupDN := r.groupDN(group)

	s, err := probe(r.client, groupDN)
	if err != nil {
		return errors.Wrapf(err, "can't update members of group %q", group)
	}

	members := make([]string, 0, len(users))
	for _, u := range users {
		members = append(members, r.memberValue(s.variant, u))
	}

	if err = r.client.ModifyReplace(groupDN, Record(s.variant, group, s.gid, members)); err != nil {
		return errors.Wrapf(err, "failed to update members of group %q", group)
	}

	return nil
}

// Members returns the raw member values of the named group, whichever
// attribute its variant stores them in.
func (r *Reconciler) Members(group string) ([]string, error) {
	s, err := probe(r.client, r.groupDN(group))
	if err != nil {
		return nil, errors.Wrapf(err, "can't list members of group %q", group)
	}

	members := append([]string(nil), s.members...)
	sort.Strings(members)

	return members, nil
}

// memberValue is what the group's member attribute stores for a user:
// the bare name for posixGroup, the full DN for groupOfNames.
func (r *Reconciler) memberValue(v Variant, user string) string {
	if v == GroupOfNames {
		return r.userDN(user)
	}

	return user
}

func (r *Reconciler) userDN(user string) string {
	return fmt.Sprintf("uid=%s,%s", user, r.userBaseDN)
}

func (r *Reconciler) groupDN(group string) string {
	return fmt.Sprintf("cn=%s,%s", group, r.groupBaseDN)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}

	return false
}
