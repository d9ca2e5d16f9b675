// Package directory wraps the LDAP connection behind a small client
// interface, so all entry manipulation logic receives its directory
// access as an explicit dependency and can be exercised against an
// in-memory fake in tests.
package directory

// Entry is a single directory entry: its distinguished name and the
// multi-valued attributes that were returned for it.
type Entry struct {
	DN    string
	Attrs map[string][]string
}

// Attr is one attribute of an add or replace operation. Order matters to
// some directory servers, so write operations take a slice instead of a map.
type Attr struct {
	Name   string
	Values []string
}

// Client is the directory access capability consumed by the allocation,
// schema and reconciliation logic. All searches are subtree-scoped.
type Client interface {
	// Search returns every entry under baseDN matching filter, projecting
	// only the requested attributes (all attributes when attrs is empty).
	Search(baseDN, filter string, attrs []string) ([]Entry, error)

	// Add creates a new entry. Attributes without values are skipped.
	Add(dn string, attrs []Attr) error

	// ModifyReplace rewrites the given attributes of an existing entry as
	// full replacements. An attribute with no values is removed.
	ModifyReplace(dn string, attrs []Attr) error

	// Delete removes an entry.
	Delete(dn string) error
}

// GetValues returns the values of the named attribute, or nil.
func (e Entry) GetValues(name string) []string {
	return e.Attrs[name]
}

// GetValue returns the first value of the named attribute, or "".
func (e Entry) GetValue(name string) string {
	if v := e.Attrs[name]; len(v) > 0 {
		return v[0]
	}

	return ""
}

// HasAttr reports whether the entry carries the named attribute at all,
// even with an empty value set.
func (e Entry) HasAttr(name string) bool {
	_, ok := e.Attrs[name]

	return ok
}
