package token

import (
	"strings"
)

// scanPlain scans a plain (unquoted) scalar. Plain scalars end at a
// value indicator followed by space, a comment introducer preceded by
// space, an unescaped flow indicator in flow context, or a line break
// followed by insufficient indentation. Line folding collapses single
// breaks to a space and preserves blank-line breaks as newlines.
func (s *Scanner) scanPlain(pos *Pos, col int) error {
	s.maybeKey(pos, col)
	start := s.i
	rawEnd := s.i

	var b strings.Builder
	breaks := 0
	ws := 0
	multiline := false

scan:
	for s.i < len(s.d) {
		c := s.d[s.i]
		switch c {
		case '\n':
			s.posDoc.nl(s.i)
			s.i++
			s.lineStart = s.i
			ws = 0
			breaks++
			// measure indentation of the continuation line
			j := s.i
			for j < len(s.d) && s.d[j] == ' ' {
				j++
			}
			if j >= len(s.d) {
				break scan
			}
			switch s.d[j] {
			case '\n':
				s.i = j
				continue
			case '\t':
				break scan
			case '#':
				break scan
			}
			ncol := j - s.lineStart
			if s.flow == 0 {
				if ncol <= s.indent {
					break scan
				}
				if ncol == 0 && (s.markerAt(j, "---") || s.markerAt(j, "...")) {
					break scan
				}
			}
			s.i = j
			multiline = true
		case ' ', '\t', '\r':
			ws++
			s.i++
		case ':':
			if s.plainColonStops(s.i) {
				break scan
			}
			s.flushPlain(&b, &breaks, &ws)
			b.WriteByte(c)
			s.i++
			rawEnd = s.i
		case '#':
			if ws > 0 || breaks > 0 {
				s.i -= ws
				break scan
			}
			s.flushPlain(&b, &breaks, &ws)
			b.WriteByte(c)
			s.i++
			rawEnd = s.i
		case ',', '[', ']', '{', '}':
			if s.flow > 0 {
				break scan
			}
			s.flushPlain(&b, &breaks, &ws)
			b.WriteByte(c)
			s.i++
			rawEnd = s.i
		default:
			s.flushPlain(&b, &breaks, &ws)
			b.WriteByte(c)
			s.i++
			rawEnd = s.i
		}
	}

	if multiline || breaks > 0 {
		s.staleKeys()
	}
	// a terminating line break re-enables implicit keys in block context
	s.allowKey = breaks > 0 && s.flow == 0
	s.push(Token{
		Type:  TScalar,
		Style: PlainStyle,
		Pos:   pos,
		Bytes: s.d[start:rawEnd],
		Value: b.String(),
	})
	return nil
}

// flushPlain emits pending fold separators and buffered interior
// whitespace before the next content byte.
func (s *Scanner) flushPlain(b *strings.Builder, breaks, ws *int) {
	if *breaks > 0 {
		if *breaks == 1 {
			b.WriteByte(' ')
		} else {
			for k := 1; k < *breaks; k++ {
				b.WriteByte('\n')
			}
		}
		*breaks = 0
		*ws = 0
		return
	}
	for ; *ws > 0; *ws-- {
		b.WriteByte(' ')
	}
}

func (s *Scanner) plainColonStops(j int) bool {
	if j+1 >= len(s.d) {
		return true
	}
	switch s.d[j+1] {
	case ' ', '\t', '\r', '\n':
		return true
	}
	if s.flow > 0 {
		switch s.d[j+1] {
		case ',', ']', '}':
			return true
		}
	}
	return false
}

func (s *Scanner) markerAt(j int, m string) bool {
	if j+len(m) > len(s.d) {
		return false
	}
	if string(s.d[j:j+len(m)]) != m {
		return false
	}
	return s.indicatorBoundary(j + len(m))
}
