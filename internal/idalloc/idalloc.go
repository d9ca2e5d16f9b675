// Package idalloc allocates numeric uid/gid values against the live
// directory contents. Allocation is a plain read-then-decide sequence with
// no server-side lock; it assumes a single operator at a time.
package idalloc

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/go-ldapuser/ldapuser/internal/directory"
)

// Kind selects which identity class an allocation is for.
type Kind int

const (
	// User allocates uidNumber values against posixAccount entries.
	User Kind = iota
	// Group allocates gidNumber values against posixGroup entries.
	Group
)

// Range bounds allocation to the half-open interval [Min, Max).
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies inside the half-open interval.
func (r Range) Contains(v int) bool {
	return r.Min <= v && v < r.Max
}

// Allocator hands out collision-free uid/gid values by scanning the
// directory for the numeric IDs already in use.
type Allocator struct {
	client      directory.Client
	userBaseDN  string
	groupBaseDN string
	users       Range
	groups      Range
}

// New returns an allocator bound to the given directory client and ranges.
func New(client directory.Client, userBaseDN, groupBaseDN string, users, groups Range) *Allocator {
	return &Allocator{
		client:      client,
		userBaseDN:  userBaseDN,
		groupBaseDN: groupBaseDN,
		users:       users,
		groups:      groups,
	}
}

// Allocate returns a validated numeric ID for the given kind.
//
// When explicit is positive it is validated against the configured range
// and checked for collisions with existing entries. Otherwise the lowest
// range value is returned for an empty directory, or the highest ID in use
// plus one; running past the top of the range is surfaced as ErrOutOfRange
// since it means the configured range is exhausted.
func (a *Allocator) Allocate(kind Kind, explicit int) (int, error) {
	bounds := a.users
	if kind == Group {
		bounds = a.groups
	}

	if explicit > 0 && !bounds.Contains(explicit) {
		return 0, errors.Wrapf(ErrOutOfRange, "%d not in %d..%d", explicit, bounds.Min, bounds.Max)
	}

	existing, err := a.scan(kind)
	if err != nil {
		return 0, err
	}

	if explicit > 0 {
		if _, taken := existing[explicit]; taken {
			return 0, errors.Wrapf(ErrConflict, "id %d already exists", explicit)
		}

		return explicit, nil
	}

	next := bounds.Min

	for id := range existing {
		if bounds.Contains(id) && id+1 > next {
			next = id + 1
		}
	}

	if next >= bounds.Max {
		return 0, errors.Wrapf(ErrOutOfRange, "range %d..%d exhausted", bounds.Min, bounds.Max)
	}

	return next, nil
}

// scan collects every numeric ID of the kind currently present in the
// directory. A missing base is treated as an empty directory.
func (a *Allocator) scan(kind Kind) (map[int]struct{}, error) {
	baseDN, filter, attr := a.userBaseDN, "(objectClass=posixAccount)", "uidNumber"
	if kind == Group {
		baseDN, filter, attr = a.groupBaseDN, "(objectClass=posixGroup)", "gidNumber"
	}

	entries, err := a.client.Search(baseDN, filter, []string{attr})
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return map[int]struct{}{}, nil
		}

		return nil, errors.Wrap(err, "failed to scan existing ids")
	}

	ids := make(map[int]struct{}, len(entries))

	for _, e := range entries {
		for _, v := range e.GetValues(attr) {
			id, errConv := strconv.Atoi(v)
			if errConv != nil {
				continue // not ours to repair
			}

			ids[id] = struct{}{}
		}
	}

	return ids, nil
}
