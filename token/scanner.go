package token

import (
	"io"
	"slices"
)

// Scanner turns normalized input into a lazy sequence of tokens. It
// keeps an indentation stack and a flow-context depth counter; token
// classification depends on both. Tokens are produced on demand: the
// scanner holds only the tokens needed to resolve one pending
// implicit-key decision.
type Scanner struct {
	d      []byte
	i      int
	posDoc *PosDoc

	queue []Token
	qi    int

	started bool
	ended   bool

	indents []int
	indent  int
	flow    int
	flowPos []*Pos

	lineStart int
	allowKey  bool
	sks       []simpleKey

	err error
}

// simpleKey tracks a candidate implicit mapping key, one slot per flow
// nesting level. The candidate begins at a token index in the queue;
// if a value indicator arrives at the same flow level on the same
// line, a TKey token is inserted at that index. Line breaks stale all
// candidates: implicit keys occupy a single line.
type simpleKey struct {
	active bool
	index  int
	col    int
	pos    *Pos
}

// NewScanner scans normalized UTF-8 input. Use Normalize (or
// NewScannerReader) first for raw input that may carry a BOM.
func NewScanner(d []byte) *Scanner {
	pd := &PosDoc{d: d}
	return &Scanner{
		d:      d,
		posDoc: pd,
		indent: -1,
	}
}

// NewScannerReader reads r fully, normalizes the encoding, and
// returns a scanner over the result.
func NewScannerReader(r io.Reader) (*Scanner, error) {
	d, err := NormalizeReader(r)
	if err != nil {
		return nil, err
	}
	return NewScanner(d), nil
}

// Next returns the next token, or an error. After the error or the
// TStreamEnd token, Next returns io.EOF.
func (s *Scanner) Next() (*Token, error) {
	for {
		if s.err != nil {
			return nil, s.err
		}
		if s.qi < len(s.queue) {
			if k := s.minKeyIndex(); k < 0 || k > s.qi {
				t := &s.queue[s.qi]
				s.qi++
				return t, nil
			}
		}
		if s.ended {
			return nil, io.EOF
		}
		if err := s.fetch(); err != nil {
			s.err = err
			return nil, err
		}
	}
}

// ScanAll drains the scanner into a slice.
func (s *Scanner) ScanAll() ([]Token, error) {
	var res []Token
	for {
		t, err := s.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
}

// Tokens scans d (normalizing first) into a token slice.
func Tokens(d []byte) ([]Token, error) {
	nd, err := Normalize(d)
	if err != nil {
		return nil, err
	}
	return NewScanner(nd).ScanAll()
}

func (s *Scanner) push(t Token) {
	if s.qi == len(s.queue) && s.minKeyIndex() < 0 {
		s.queue = s.queue[:0]
		s.qi = 0
	}
	s.queue = append(s.queue, t)
}

// maybeKey marks the token about to be pushed as a possible implicit
// key start at the current flow level.
func (s *Scanner) maybeKey(pos *Pos, col int) {
	if !s.allowKey {
		return
	}
	for len(s.sks) <= s.flow {
		s.sks = append(s.sks, simpleKey{})
	}
	s.sks[s.flow] = simpleKey{
		active: true,
		index:  len(s.queue),
		col:    col,
		pos:    pos,
	}
}

// curKey returns the candidate implicit key at the current flow level,
// or nil.
func (s *Scanner) curKey() *simpleKey {
	if s.flow < len(s.sks) && s.sks[s.flow].active {
		return &s.sks[s.flow]
	}
	return nil
}

// breakKey drops the candidate at the current flow level.
func (s *Scanner) breakKey() {
	if s.flow < len(s.sks) {
		s.sks[s.flow].active = false
	}
}

// staleKeys drops all candidates; called at line breaks and stream
// boundaries.
func (s *Scanner) staleKeys() {
	for i := range s.sks {
		s.sks[i].active = false
	}
}

// minKeyIndex returns the smallest queue index among active
// candidates, or -1 if none.
func (s *Scanner) minKeyIndex() int {
	res := -1
	for i := range s.sks {
		if s.sks[i].active && (res < 0 || s.sks[i].index < res) {
			res = s.sks[i].index
		}
	}
	return res
}

func (s *Scanner) pushIndent(col int) {
	if col > s.indent {
		s.indents = append(s.indents, s.indent)
		s.indent = col
	}
}

func (s *Scanner) unrollIndent(col int) {
	for s.indent > col && len(s.indents) > 0 {
		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
}

func (s *Scanner) resetIndent() {
	s.indents = s.indents[:0]
	s.indent = -1
}

func (s *Scanner) col() int {
	return s.i - s.lineStart
}

// fetch scans input until at least one more token is queued, the
// pending implicit key is resolved, or the stream ends.
func (s *Scanner) fetch() error {
	if !s.started {
		s.started = true
		s.allowKey = true
		s.push(Token{Type: TStreamStart, Pos: s.posDoc.Pos(0)})
		return nil
	}
	if err := s.skipToToken(); err != nil {
		return err
	}
	if s.i >= len(s.d) {
		s.staleKeys()
		s.unrollIndent(-1)
		s.ended = true
		if s.flow > 0 {
			return NewScanError(ErrUnterminated, s.flowPos[len(s.flowPos)-1])
		}
		s.push(Token{Type: TStreamEnd, Pos: s.posDoc.end()})
		return nil
	}

	c := s.d[s.i]
	col := s.col()
	pos := s.posDoc.Pos(s.i)

	// document markers at column 0
	if col == 0 && s.flow == 0 {
		if s.lookingAtMarker("---") {
			return s.scanDocMarker(TDocStart, pos)
		}
		if s.lookingAtMarker("...") {
			return s.scanDocMarker(TDocEnd, pos)
		}
		if c == '%' {
			return s.scanDirective(pos)
		}
	}

	if s.flow == 0 && s.atLineStartToken() {
		s.unrollIndent(col)
	}

	switch c {
	case '[':
		return s.scanFlowOpen(TFlowSeqStart, pos, col)
	case '{':
		return s.scanFlowOpen(TFlowMapStart, pos, col)
	case ']':
		return s.scanFlowClose(TFlowSeqEnd, pos)
	case '}':
		return s.scanFlowClose(TFlowMapEnd, pos)
	case ',':
		if s.flow > 0 {
			s.i++
			s.breakKey()
			s.allowKey = true
			s.push(Token{Type: TFlowEntry, Pos: pos, Bytes: s.d[s.i-1 : s.i]})
			return nil
		}
	case '-':
		if s.flow == 0 && s.indicatorBoundary(s.i+1) {
			s.i++
			s.breakKey()
			s.allowKey = true
			s.pushIndent(col)
			s.push(Token{Type: TSeqEntry, Pos: pos, Bytes: s.d[s.i-1 : s.i]})
			return nil
		}
	case '?':
		if s.indicatorBoundary(s.i + 1) {
			s.i++
			s.breakKey()
			s.allowKey = true
			if s.flow == 0 {
				s.pushIndent(col)
			}
			s.push(Token{Type: TKey, Pos: pos, Bytes: s.d[s.i-1 : s.i]})
			return nil
		}
	case ':':
		if s.valueIndicator() {
			s.i++
			if sk := s.curKey(); sk != nil {
				s.queue = slices.Insert(s.queue, sk.index, Token{
					Type: TKey,
					Pos:  sk.pos,
				})
				if s.flow == 0 {
					s.pushIndent(sk.col)
				}
				s.breakKey()
				s.allowKey = false
			} else {
				s.allowKey = s.flow == 0
			}
			s.push(Token{Type: TValue, Pos: pos, Bytes: s.d[s.i-1 : s.i]})
			return nil
		}
	case '&':
		return s.scanAnchor(TAnchor, pos, col)
	case '*':
		return s.scanAnchor(TAlias, pos, col)
	case '!':
		return s.scanTag(pos, col)
	case '|':
		if s.flow == 0 {
			return s.scanBlockScalar(LiteralStyle, pos)
		}
	case '>':
		if s.flow == 0 {
			return s.scanBlockScalar(FoldedStyle, pos)
		}
	case '\'':
		return s.scanQuoted(SingleStyle, pos, col)
	case '"':
		return s.scanQuoted(DoubleStyle, pos, col)
	}
	return s.scanPlain(pos, col)
}

// atLineStartToken reports whether only whitespace precedes the
// current position on this line.
func (s *Scanner) atLineStartToken() bool {
	for j := s.lineStart; j < s.i; j++ {
		if s.d[j] != ' ' && s.d[j] != '\t' {
			return false
		}
	}
	return true
}

func (s *Scanner) lookingAtMarker(m string) bool {
	if s.i+len(m) > len(s.d) {
		return false
	}
	if string(s.d[s.i:s.i+len(m)]) != m {
		return false
	}
	return s.indicatorBoundary(s.i + len(m))
}

// indicatorBoundary reports whether the byte at j terminates an
// indicator: whitespace, a line break, or end of input.
func (s *Scanner) indicatorBoundary(j int) bool {
	if j >= len(s.d) {
		return true
	}
	switch s.d[j] {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// valueIndicator reports whether ':' at the current position starts a
// mapping value rather than plain scalar content.
func (s *Scanner) valueIndicator() bool {
	if s.flow > 0 {
		if s.curKey() != nil {
			return true
		}
		if s.i+1 >= len(s.d) {
			return true
		}
		switch s.d[s.i+1] {
		case ' ', '\t', '\r', '\n', ',', ']', '}':
			return true
		}
		return false
	}
	return s.indicatorBoundary(s.i + 1)
}

// skipToToken consumes whitespace, line breaks and comments up to the
// next token. Comments are queued as tokens but have no structural
// effect.
func (s *Scanner) skipToToken() error {
	tabPos := -1
	for s.i < len(s.d) {
		switch s.d[s.i] {
		case ' ':
			s.i++
		case '\t':
			if s.flow == 0 && s.atLineIndent() && tabPos < 0 {
				tabPos = s.i
			}
			s.i++
		case '\r':
			s.i++
		case '\n':
			s.posDoc.nl(s.i)
			s.i++
			s.lineStart = s.i
			tabPos = -1
			s.staleKeys()
			if s.flow == 0 {
				s.allowKey = true
			}
		case '#':
			start := s.i
			pos := s.posDoc.Pos(s.i)
			for s.i < len(s.d) && s.d[s.i] != '\n' {
				s.i++
			}
			s.push(Token{
				Type:  TComment,
				Pos:   pos,
				Bytes: s.d[start:s.i],
				Value: string(s.d[start:s.i]),
			})
			// keep skipping: the trailing break gets the normal
			// newline handling rather than reaching the scalar scan
		default:
			if tabPos >= 0 {
				return NewScanError(ErrTabIndent, s.posDoc.Pos(tabPos))
			}
			return nil
		}
	}
	return nil
}

// atLineIndent reports whether everything since line start is
// whitespace, i.e. we are still inside the line's indentation.
func (s *Scanner) atLineIndent() bool {
	return s.atLineStartToken()
}

func (s *Scanner) scanDocMarker(tt TokenType, pos *Pos) error {
	s.staleKeys()
	s.resetIndent()
	s.allowKey = true
	start := s.i
	s.i += 3
	s.push(Token{Type: tt, Pos: pos, Bytes: s.d[start:s.i]})
	return nil
}

func (s *Scanner) scanDirective(pos *Pos) error {
	start := s.i
	s.i++ // '%'
	for s.i < len(s.d) && s.d[s.i] != '\n' && s.d[s.i] != '#' {
		s.i++
	}
	v := s.d[start+1 : s.i]
	// trim trailing separation
	for len(v) > 0 && (v[len(v)-1] == ' ' || v[len(v)-1] == '\t' || v[len(v)-1] == '\r') {
		v = v[:len(v)-1]
	}
	if len(v) == 0 {
		return NewScanError(ErrBadDirective, pos)
	}
	s.push(Token{
		Type:  TDirective,
		Pos:   pos,
		Bytes: s.d[start:s.i],
		Value: string(v),
	})
	return nil
}

func (s *Scanner) scanFlowOpen(tt TokenType, pos *Pos, col int) error {
	s.maybeKey(pos, col)
	s.flow++
	s.flowPos = append(s.flowPos, pos)
	s.i++
	s.allowKey = true
	s.push(Token{Type: tt, Pos: pos, Bytes: s.d[s.i-1 : s.i]})
	return nil
}

func (s *Scanner) scanFlowClose(tt TokenType, pos *Pos) error {
	if s.flow > 0 {
		s.breakKey()
		s.flow--
		s.flowPos = s.flowPos[:s.flow]
	}
	s.i++
	s.allowKey = false
	s.push(Token{Type: tt, Pos: pos, Bytes: s.d[s.i-1 : s.i]})
	return nil
}

func anchorChar(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '[', ']', '{', '}', ',':
		return false
	}
	return c > 0x20
}

func (s *Scanner) scanAnchor(tt TokenType, pos *Pos, col int) error {
	s.maybeKey(pos, col)
	start := s.i
	s.i++
	for s.i < len(s.d) && anchorChar(s.d[s.i]) {
		s.i++
	}
	if s.i == start+1 {
		return NewScanError(ErrBadAnchor, pos)
	}
	s.allowKey = false
	s.push(Token{
		Type:  tt,
		Pos:   pos,
		Bytes: s.d[start:s.i],
		Value: string(s.d[start+1 : s.i]),
	})
	return nil
}

func (s *Scanner) scanTag(pos *Pos, col int) error {
	s.maybeKey(pos, col)
	start := s.i
	s.i++
	if s.i < len(s.d) && s.d[s.i] == '<' {
		// verbatim tag
		for s.i < len(s.d) && s.d[s.i] != '>' && s.d[s.i] != '\n' {
			s.i++
		}
		if s.i >= len(s.d) || s.d[s.i] != '>' {
			return NewScanError(ErrBadTag, pos)
		}
		s.i++
	} else {
		for s.i < len(s.d) && anchorChar(s.d[s.i]) {
			s.i++
		}
	}
	s.allowKey = false
	s.push(Token{
		Type:  TTag,
		Pos:   pos,
		Bytes: s.d[start:s.i],
		Value: string(s.d[start:s.i]),
	})
	return nil
}
