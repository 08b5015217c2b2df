package config

import "strings"

// toScreamingSnakeCase turns FooBar, fooBar, foo-bar or foo_bar into FOO_BAR
func toScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)
	if len(in) == 0 {
		return in
	}

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3)

	previousWasSeparator := true
	for _, b := range []byte(in) {
		switch {
		case 'a' <= b && b <= 'z':
			sb.WriteByte(b - ('a' - 'A'))
			previousWasSeparator = false
		case 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
			if !previousWasSeparator {
				sb.WriteByte('_')
			}
			sb.WriteByte(b)
			previousWasSeparator = false
		case b == '_' || b == '-':
			if !previousWasSeparator {
				sb.WriteByte('_')
			}
			previousWasSeparator = true
		default:
			sb.WriteByte(b)
			previousWasSeparator = false
		}
	}

	return sb.String()
}
