package encode

import (
	"fmt"
	"strings"
)

// printable reports whether r is in the YAML printable set.
func printable(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0x7e:
		return true
	case r == 0x85:
		return true
	case r >= 0xa0 && r <= 0xd7ff:
		return true
	case r >= 0xe000 && r <= 0xfffd:
		return true
	case r >= 0x10000 && r <= 0x10ffff:
		return true
	}
	return false
}

func allPrintable(v string) bool {
	for _, r := range v {
		if !printable(r) {
			return false
		}
	}
	return true
}

// plainSafe reports whether v written verbatim scans back as a plain
// scalar with the same value.
func plainSafe(v string, inFlow bool) bool {
	if v == "" {
		return true
	}
	if strings.ContainsAny(v, "\n\t") {
		return false
	}
	if v[0] == ' ' || v[len(v)-1] == ' ' {
		return false
	}
	switch v[0] {
	case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	case '-', '?', ':':
		if len(v) == 1 || v[1] == ' ' {
			return false
		}
	}
	if v == "---" || v == "..." ||
		strings.HasPrefix(v, "--- ") || strings.HasPrefix(v, "... ") {
		return false
	}
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case ':':
			if i == len(v)-1 || v[i+1] == ' ' {
				return false
			}
		case '#':
			if v[i-1] == ' ' {
				return false
			}
		case ',', '[', ']', '{', '}':
			if inFlow {
				return false
			}
		}
	}
	return allPrintable(v)
}

// singleSafe reports whether v fits in a one-line single-quoted
// scalar.
func singleSafe(v string) bool {
	return !strings.Contains(v, "\n") && allPrintable(v)
}

func renderSingle(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func renderDouble(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			if printable(r) {
				b.WriteRune(r)
				continue
			}
			switch {
			case r < 0x100:
				fmt.Fprintf(&b, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// blockSafe reports whether v can carry a literal block scalar:
// printable text with a representable trailing-newline count.
func blockSafe(v string) bool {
	if v == "" {
		return false
	}
	if strings.Contains(v, "\r") {
		return false
	}
	if strings.TrimRight(v, "\n") == "" {
		// all newlines: no content line to hang the breaks on
		return false
	}
	return allPrintable(v)
}

// foldedSafe additionally requires that no line starts with a space
// or tab, since more-indented folded lines do not fold cleanly back.
func foldedSafe(v string) bool {
	if !blockSafe(v) {
		return false
	}
	for _, line := range strings.Split(strings.TrimRight(v, "\n"), "\n") {
		if line != "" && (line[0] == ' ' || line[0] == '\t') {
			return false
		}
	}
	return true
}

// chompSplit splits a block scalar value into its content lines and
// the chomping indicator covering its trailing newlines.
func chompSplit(v string) (lines []string, chomp string, trailing int) {
	body := strings.TrimRight(v, "\n")
	trailing = len(v) - len(body)
	switch {
	case trailing == 0:
		chomp = "-"
	case trailing == 1:
		chomp = ""
	default:
		chomp = "+"
	}
	return strings.Split(body, "\n"), chomp, trailing
}
