package directory

import (
	"strings"
)

// RDNValue extracts the value of the leading RDN of dn when its attribute
// type matches attr, e.g. RDNValue("cn=devs,ou=groups,dc=example", "cn")
// returns "devs". Returns "" when the first RDN uses a different attribute.
func RDNValue(dn, attr string) string {
	rdn := dn
	if i := strings.Index(dn, ","); i >= 0 {
		rdn = dn[:i]
	}

	prefix := attr + "="
	if !strings.HasPrefix(strings.ToLower(rdn), strings.ToLower(prefix)) {
		return ""
	}

	return rdn[len(prefix):]
}
