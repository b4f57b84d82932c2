package gen

import "strings"

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

// prefixed returns every item with prefix prepended.
func prefixed(prefix string, items []string, quote func(string) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = prefix + quote(item)
	}
	return out
}
