package accounts

import (
	"fmt"
	"io"
	"sort"
)

// divider matches the width of the header block in the rendered output.
const divider = "----------------------------------------------------------------------------------"

// suppressedAttrs are not rendered: cn and sn duplicate the entry name and
// objectClass is schema noise for an operator listing.
var suppressedAttrs = map[string]bool{
	"cn":          true,
	"sn":          true,
	"objectClass": true,
}

// renderEntry writes one entry block: an indexed header naming the entry,
// a divider, then one line per attribute value. Multi-valued attributes
// repeat the key; an empty attribute renders with an empty value.
func renderEntry(w io.Writer, idx int, name, dn string, attrs map[string][]string) {
	fmt.Fprintf(w, "\n[%d] => NAME: %s, DN: %s\n", idx, name, dn)
	fmt.Fprintln(w, divider)

	names := make([]string, 0, len(attrs))
	for attr := range attrs {
		if !suppressedAttrs[attr] {
			names = append(names, attr)
		}
	}

	sort.Strings(names)

	for _, attr := range names {
		values := attrs[attr]
		if len(values) == 0 {
			fmt.Fprintf(w, "%s: \n", attr)

			continue
		}

		for _, v := range values {
			fmt.Fprintf(w, "%s: %s\n", attr, v)
		}
	}

	fmt.Fprintln(w)
}
