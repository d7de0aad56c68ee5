package sheet

import (
	"fmt"
	"strings"
)

// expand replaces every {field} in tmpl with the value of that field. "{{" and "}}" produce
// literal braces.
func expand(tmpl string, fields Metadata) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch {
		case c == '{' && strings.HasPrefix(tmpl[i+1:], "{"):
			b.WriteByte('{')
			i += 2
		case c == '}' && strings.HasPrefix(tmpl[i+1:], "}"):
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' in %q", ErrUnresolvedPlaceholder, tmpl)
			}
			name := tmpl[i+1 : i+1+end]
			v, ok := fields[name]
			if !ok {
				return "", fmt.Errorf("%w: {%s} in %q", ErrUnresolvedPlaceholder, name, tmpl)
			}
			b.WriteString(v.String())
			i += end + 2
		case c == '}':
			return "", fmt.Errorf("%w: single '}' in %q", ErrUnresolvedPlaceholder, tmpl)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}
