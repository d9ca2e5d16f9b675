// Package directorytest provides an in-memory directory.Client for tests.
// It understands just enough of the LDAP filter grammar used by this tool:
// presence ("(objectClass=*)"), equality and a flat OR of equalities.
package directorytest

import (
	"sort"
	"strings"

	"github.com/go-ldapuser/ldapuser/internal/directory"
)

// Fake is an in-memory directory store. Entries are held as plain
// attribute maps keyed by DN; attribute names match case-insensitively
// like a real server.
type Fake struct {
	entries map[string]map[string][]string

	// Mutations counts Add/ModifyReplace/Delete calls, letting tests
	// assert that a no-op reconciliation issued no writes.
	Mutations int
}

// New returns an empty fake directory.
func New() *Fake {
	return &Fake{entries: make(map[string]map[string][]string)}
}

// Put seeds an entry, overwriting any previous one. Values are copied.
func (f *Fake) Put(dn string, attrs map[string][]string) {
	e := make(map[string][]string, len(attrs))
	for k, v := range attrs {
		e[k] = append([]string(nil), v...)
	}

	f.entries[dn] = e
}

// Entry returns a copy of the stored entry, or nil when absent.
func (f *Fake) Entry(dn string) map[string][]string {
	e, ok := f.entries[dn]
	if !ok {
		return nil
	}

	out := make(map[string][]string, len(e))
	for k, v := range e {
		out[k] = append([]string(nil), v...)
	}

	return out
}

// Search implements directory.Client.
func (f *Fake) Search(baseDN, filter string, attrs []string) ([]directory.Entry, error) {
	if _, ok := f.entries[baseDN]; !ok && !f.hasChildren(baseDN) {
		return nil, directory.ErrNotFound
	}

	var out []directory.Entry

	for dn, e := range f.entries {
		if !underBase(dn, baseDN) || !matches(e, filter) {
			continue
		}

		out = append(out, directory.Entry{DN: dn, Attrs: project(e, attrs)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DN < out[j].DN })

	return out, nil
}

// Add implements directory.Client.
func (f *Fake) Add(dn string, attrs []directory.Attr) error {
	if _, ok := f.entries[dn]; ok {
		return directory.ErrAlreadyExists
	}

	e := make(map[string][]string)

	for _, a := range attrs {
		if len(a.Values) == 0 {
			continue
		}

		e[a.Name] = append([]string(nil), a.Values...)
	}

	f.entries[dn] = e
	f.Mutations++

	return nil
}

// ModifyReplace implements directory.Client.
func (f *Fake) ModifyReplace(dn string, attrs []directory.Attr) error {
	e, ok := f.entries[dn]
	if !ok {
		return directory.ErrNotFound
	}

	for _, a := range attrs {
		if len(a.Values) == 0 {
			delete(e, canonical(e, a.Name))

			continue
		}

		e[canonical(e, a.Name)] = append([]string(nil), a.Values...)
	}

	f.Mutations++

	return nil
}

// Delete implements directory.Client.
func (f *Fake) Delete(dn string) error {
	if _, ok := f.entries[dn]; !ok {
		return directory.ErrNotFound
	}

	delete(f.entries, dn)
	f.Mutations++

	return nil
}

func (f *Fake) hasChildren(baseDN string) bool {
	for dn := range f.entries {
		if underBase(dn, baseDN) {
			return true
		}
	}

	return false
}

func underBase(dn, baseDN string) bool {
	dn, baseDN = strings.ToLower(dn), strings.ToLower(baseDN)

	return dn == baseDN || strings.HasSuffix(dn, ","+baseDN)
}

// canonical returns the stored spelling of an attribute name, so a replace
// of "memberUid" finds an entry seeded with "memberuid" and vice versa.
func canonical(e map[string][]string, name string) string {
	for k := range e {
		if strings.EqualFold(k, name) {
			return k
		}
	}

	return name
}

func project(e map[string][]string, attrs []string) map[string][]string {
	out := make(map[string][]string)

	if len(attrs) == 0 {
		for k, v := range e {
			out[k] = append([]string(nil), v...)
		}

		return out
	}

	for _, name := range attrs {
		for k, v := range e {
			if strings.EqualFold(k, name) {
				out[name] = append([]string(nil), v...)
			}
		}
	}

	return out
}

// matches evaluates the supported filter subset against an entry.
func matches(e map[string][]string, filter string) bool {
	filter = strings.TrimSpace(filter)

	if filter == "" || filter == "(objectClass=*)" || filter == "(objectclass=*)" {
		return true
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(filter, "("), ")")

	if strings.HasPrefix(inner, "|") {
		for _, sub := range splitClauses(inner[1:]) {
			if matches(e, sub) {
				return true
			}
		}

		return false
	}

	name, value, ok := strings.Cut(inner, "=")
	if !ok {
		return false
	}

	if value == "*" {
		for k := range e {
			if strings.EqualFold(k, name) {
				return true
			}
		}

		return false
	}

	for k, vals := range e {
		if !strings.EqualFold(k, name) {
			continue
		}

		for _, v := range vals {
			if strings.EqualFold(v, value) {
				return true
			}
		}
	}

	return false
}

func splitClauses(s string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
			}
		}
	}

	return out
}
