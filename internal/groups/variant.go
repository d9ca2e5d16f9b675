// Package groups handles the two incompatible group schemas the directory
// may contain — flat posixGroup member lists and groupOfNames DN lists —
// and reconciles a user's group memberships against a desired set.
package groups

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-ldapuser/ldapuser/internal/directory"
)

// Variant is the schema a group entry uses. It is fixed at creation time;
// switching variant requires re-creating the group.
type Variant int

const (
	// PosixGroup carries a gidNumber and a memberUid list of bare user names.
	PosixGroup Variant = iota
	// GroupOfNames carries a member list of full user DNs and no gidNumber.
	GroupOfNames
)

func (v Variant) String() string {
	if v == GroupOfNames {
		return "groupOfNames"
	}

	return "posixGroup"
}

// memberAttr is the member attribute the variant stores.
func (v Variant) memberAttr() string {
	if v == GroupOfNames {
		return "member"
	}

	return "memberUid"
}

// state is a probed group entry: its variant plus the attribute values a
// full-replace write has to carry back.
type state struct {
	variant Variant
	gid     string
	members []string
}

// ResolveVariant determines which schema the named group entry uses.
// Probing is a single search projecting the discriminating attributes;
// no directory failure is used for control flow.
func ResolveVariant(client directory.Client, groupDN string) (Variant, error) {
	s, err := probe(client, groupDN)
	if err != nil {
		return 0, err
	}

	return s.variant, nil
}

// probe fetches the group entry and classifies it. A memberUid attribute
// (even empty) or a posixGroup object class means PosixGroup; a member
// attribute or a groupOfNames object class means GroupOfNames; anything
// else is not a group this tool knows how to mutate.
func probe(client directory.Client, groupDN string) (*state, error) {
	entries, err := client.Search(groupDN, "(objectClass=*)",
		[]string{"objectClass", "gidNumber", "memberUid", "member"})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, errors.Wrapf(directory.ErrNotFound, "group %s", groupDN)
	}

	e := entries[0]
	classes := e.GetValues("objectClass")

	switch {
	case e.HasAttr("memberUid") || hasClass(classes, "posixGroup"):
		return &state{
			variant: PosixGroup,
			gid:     e.GetValue("gidNumber"),
			members: e.GetValues("memberUid"),
		}, nil
	case e.HasAttr("member") || hasClass(classes, "groupOfNames"):
		return &state{
			variant: GroupOfNames,
			members: e.GetValues("member"),
		}, nil
	}

	return nil, errors.Wrapf(directory.ErrNotFound, "entry %s is not a known group type", groupDN)
}

func hasClass(classes []string, class string) bool {
	for _, c := range classes {
		if strings.EqualFold(c, class) {
			return true
		}
	}

	return false
}

// Record builds the full ordered attribute set for a group create or
// full-replace write. Members are deduplicated and sorted; the two variants
// never share ID or member attributes on the same record.
func Record(v Variant, name, gid string, members []string) []directory.Attr {
	record := []directory.Attr{
		{Name: "objectClass", Values: []string{"top", v.String()}},
		{Name: "cn", Values: []string{name}},
	}

	if v == PosixGroup {
		record = append(record, directory.Attr{Name: "gidNumber", Values: []string{gid}})
	}

	return append(record, directory.Attr{Name: v.memberAttr(), Values: dedupe(members)})
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}
