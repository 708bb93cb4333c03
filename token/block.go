package token

import (
	"strings"
)

// scanBlockScalar scans a literal (|) or folded (>) block scalar. The
// header may carry a chomping indicator (+ keep, - strip) and an
// explicit indentation digit, in either order. Without a digit the
// content indentation is taken from the first non-blank line.
func (s *Scanner) scanBlockScalar(style ScalarStyle, pos *Pos) error {
	start := s.i
	s.i++ // '|' or '>'

	chomp := 0
	haveChomp := false
	digit := 0
	for s.i < len(s.d) {
		c := s.d[s.i]
		if (c == '+' || c == '-') && !haveChomp {
			haveChomp = true
			if c == '+' {
				chomp = 1
			} else {
				chomp = -1
			}
			s.i++
			continue
		}
		if c >= '1' && c <= '9' && digit == 0 {
			digit = int(c - '0')
			s.i++
			continue
		}
		break
	}
	for s.i < len(s.d) && (s.d[s.i] == ' ' || s.d[s.i] == '\t' || s.d[s.i] == '\r') {
		s.i++
	}
	if s.i < len(s.d) && s.d[s.i] == '#' {
		cstart := s.i
		cpos := s.posDoc.Pos(s.i)
		for s.i < len(s.d) && s.d[s.i] != '\n' {
			s.i++
		}
		s.push(Token{
			Type:  TComment,
			Pos:   cpos,
			Bytes: s.d[cstart:s.i],
			Value: string(s.d[cstart:s.i]),
		})
	}
	if s.i < len(s.d) {
		if s.d[s.i] != '\n' {
			return NewScanError(ErrBadBlockHeader, pos)
		}
		s.posDoc.nl(s.i)
		s.i++
		s.lineStart = s.i
	}

	base := s.indent
	if base < 0 {
		base = 0
	}
	auto := digit == 0
	contentIndent := 0
	if !auto {
		contentIndent = base + digit
	}

	var b strings.Builder
	breaks := 0
	maxBlank := 0
	first := true
	prevMore := false

	for s.i < len(s.d) {
		// s.i is at a line start
		j := s.i
		for j < len(s.d) && s.d[j] == ' ' {
			j++
		}
		col := j - s.i
		blank := j >= len(s.d) || s.d[j] == '\n' ||
			(s.d[j] == '\r' && j+1 < len(s.d) && s.d[j+1] == '\n')
		if blank {
			if auto && col > maxBlank {
				maxBlank = col
			}
			breaks++
			for j < len(s.d) && s.d[j] != '\n' {
				j++
			}
			if j >= len(s.d) {
				s.i = j
				break
			}
			s.posDoc.nl(j)
			s.i = j + 1
			s.lineStart = s.i
			continue
		}

		if auto {
			if col <= s.indent {
				break
			}
			if col == 0 && (s.markerAt(j, "---") || s.markerAt(j, "...")) {
				break
			}
			if maxBlank > col {
				return NewScanError(ErrBadIndent, s.posDoc.Pos(j))
			}
			contentIndent = col
			auto = false
		} else {
			if col < contentIndent {
				break
			}
			if col == 0 && (s.markerAt(j, "---") || s.markerAt(j, "...")) {
				break
			}
		}

		contentStart := s.i + contentIndent
		curMore := col > contentIndent || s.d[contentStart] == '\t'

		if first {
			for k := 0; k < breaks; k++ {
				b.WriteByte('\n')
			}
		} else if style == FoldedStyle && !prevMore && !curMore {
			if breaks == 1 {
				b.WriteByte(' ')
			} else {
				for k := 1; k < breaks; k++ {
					b.WriteByte('\n')
				}
			}
		} else {
			for k := 0; k < breaks; k++ {
				b.WriteByte('\n')
			}
		}
		breaks = 0
		first = false
		prevMore = curMore

		end := contentStart
		for end < len(s.d) && s.d[end] != '\n' {
			end++
		}
		line := s.d[contentStart:end]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		b.Write(line)
		if end >= len(s.d) {
			s.i = end
			break
		}
		s.posDoc.nl(end)
		s.i = end + 1
		s.lineStart = s.i
		breaks = 1
	}

	switch {
	case chomp > 0:
		for k := 0; k < breaks; k++ {
			b.WriteByte('\n')
		}
	case chomp == 0:
		if breaks > 0 && !first {
			b.WriteByte('\n')
		}
	}

	s.staleKeys()
	s.allowKey = true
	s.push(Token{
		Type:  TScalar,
		Style: style,
		Pos:   pos,
		Bytes: s.d[start:s.i],
		Value: b.String(),
	})
	return nil
}
