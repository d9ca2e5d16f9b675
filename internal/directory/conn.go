package directory

import (
	"crypto/tls"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config holds the connection settings for the directory server.
type Config struct {
	// Server is the LDAP URL, e.g. "ldap://ldap.example.com:389" or
	// "ldaps://ldap.example.com:636".
	Server string
	// BindDN is the distinguished name to bind with.
	BindDN string
	// BindPassword is the password for the bind DN.
	BindPassword string
	// Timeout is the network timeout in seconds. Zero keeps the library default.
	Timeout int
	// StartTLS upgrades a plain connection to TLS after connecting.
	StartTLS bool
	// SkipVerify skips TLS certificate verification (insecure, for testing only).
	SkipVerify bool
}

// Conn is the live directory session. It implements Client over a single
// bound LDAP connection; one session is opened per command invocation.
type Conn struct {
	conn *ldap.Conn
}

// Connect dials the directory server, optionally upgrades to TLS and binds
// with the configured credentials.
func Connect(cfg Config) (*Conn, error) {
	var tlsConfig *tls.Config
	if cfg.StartTLS || cfg.SkipVerify {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: cfg.SkipVerify, //nolint:gosec // skipping verifying tls is ok
		}
	}

	conn, err := ldap.DialURL(cfg.Server, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, errors.Wrap(translate(err), "failed to connect to LDAP server")
	}

	if cfg.StartTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, errors.Wrap(translate(errStartTLS), "failed to start TLS")
		}
	}

	if cfg.Timeout > 0 {
		conn.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	if err = conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
		if errClose := conn.Close(); errClose != nil {
			log.Error().Err(errClose).Msg("failed to close LDAP connection")
		}

		return nil, errors.Wrap(translate(err), "failed to bind")
	}

	return &Conn{conn: conn}, nil
}

// Close releases the directory session.
func (c *Conn) Close() {
	if err := c.conn.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close LDAP connection")
	}
}

// Search implements Client.
func (c *Conn) Search(baseDN, filter string, attrs []string) ([]Entry, error) {
	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		0, // Time limit
		false,
		filter,
		attrs,
		nil,
	)

	res, err := c.conn.Search(req)
	if err != nil {
		return nil, errors.Wrap(translate(err), "search failed")
	}

	entries := make([]Entry, 0, len(res.Entries))

	for _, e := range res.Entries {
		entry := Entry{DN: e.DN, Attrs: make(map[string][]string, len(e.Attributes))}
		for _, a := range e.Attributes {
			entry.Attrs[a.Name] = a.Values
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Add implements Client.
func (c *Conn) Add(dn string, attrs []Attr) error {
	req := ldap.NewAddRequest(dn, nil)

	for _, a := range attrs {
		// an add with an empty value set is a protocol error
		if len(a.Values) == 0 {
			continue
		}

		req.Attribute(a.Name, a.Values)
	}

	if err := c.conn.Add(req); err != nil {
		return errors.Wrap(translate(err), "add failed")
	}

	return nil
}

// ModifyReplace implements Client.
func (c *Conn) ModifyReplace(dn string, attrs []Attr) error {
	req := ldap.NewModifyRequest(dn, nil)

	for _, a := range attrs {
		req.Replace(a.Name, a.Values)
	}

	if err := c.conn.Modify(req); err != nil {
		return errors.Wrap(translate(err), "modify failed")
	}

	return nil
}

// Delete implements Client.
func (c *Conn) Delete(dn string) error {
	req := ldap.NewDelRequest(dn, nil)

	if err := c.conn.Del(req); err != nil {
		return errors.Wrap(translate(err), "delete failed")
	}

	return nil
}
