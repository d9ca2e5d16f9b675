// Package accounts orchestrates create/update/delete/show for user and
// group entries, composing ID allocation, credential generation, group
// schema handling and membership reconciliation over a directory client.
package accounts

import (
	"fmt"
	"io"

	"github.com/go-ldapuser/ldapuser/internal/directory"
	"github.com/go-ldapuser/ldapuser/internal/groups"
	"github.com/go-ldapuser/ldapuser/internal/idalloc"
)

// Config carries the directory layout and allocation bounds the manager
// operates with.
type Config struct {
	// UserBaseDN is the subtree holding user entries.
	UserBaseDN string
	// GroupBaseDN is the subtree holding group entries.
	GroupBaseDN string
	// MailDomain is appended to the user name when no mail address is given.
	MailDomain string
	// UserIDs bounds uidNumber allocation.
	UserIDs idalloc.Range
	// GroupIDs bounds gidNumber allocation.
	GroupIDs idalloc.Range
}

// Manager is the entry-level orchestrator behind every CLI command. All
// collaborators receive the directory client explicitly; the manager holds
// no hidden session state beyond it.
type Manager struct {
	client     directory.Client
	cfg        Config
	alloc      *idalloc.Allocator
	membership *groups.Reconciler
	out        io.Writer
}

// NewManager wires a manager over the given directory client. Rendered
// command output (entry listings, generated passwords) goes to out.
func NewManager(client directory.Client, cfg Config, out io.Writer) *Manager {
	return &Manager{
		client:     client,
		cfg:        cfg,
		alloc:      idalloc.New(client, cfg.UserBaseDN, cfg.GroupBaseDN, cfg.UserIDs, cfg.GroupIDs),
		membership: groups.NewReconciler(client, cfg.UserBaseDN, cfg.GroupBaseDN),
		out:        out,
	}
}

func (m *Manager) userDN(user string) string {
	return fmt.Sprintf("uid=%s,%s", user, m.cfg.UserBaseDN)
}

func (m *Manager) groupDN(group string) string {
	return fmt.Sprintf("cn=%s,%s", group, m.cfg.GroupBaseDN)
}
