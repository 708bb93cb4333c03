package parse

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/yaml-kit/go-yamlkit/debug"
	"github.com/signadot/yaml-kit/go-yamlkit/stream"
	"github.com/signadot/yaml-kit/go-yamlkit/token"
)

// Parser turns tokens into structural events. It keeps an explicit
// stack of open collection frames; block nesting is decided by
// comparing token columns against frame columns, flow nesting by the
// delimiter tokens themselves. Events are produced on demand with one
// token of lookahead.
type Parser struct {
	sc       *token.Scanner
	tok      token.Token
	havePeek bool

	q  []stream.Event
	qi int

	frames []pframe

	directives []string
	tagMap     map[string]string
	yamlSeen   bool

	pendAnchor string
	pendTag    string
	pendPos    *token.Pos

	opts parseOpts
	errs []error
	err  error
	done bool
}

type fkind int

const (
	fDoc fkind = iota
	fBlockSeq
	fBlockMap
	fFlowSeq
	fFlowMap
	fFlowPair
)

type fstate int

const (
	expRoot fstate = iota
	expDocEnd
	expEntry      // block sequence: expect '-' or dedent
	expEntryValue // block sequence: after '-', expect a node
	expKey        // block mapping: expect a key or dedent
	expKeyNode    // after a key token, expect the key node
	expValueMark  // after the key node, expect ':'
	expValue      // after ':', expect the value node
	expFlowFirst  // flow collection: first entry or close
	expFlowNode   // flow collection: after ',', expect an entry
	expFlowEntry  // flow collection: expect ',' or close
	expFlowKeyDone
)

type pframe struct {
	kind  fkind
	st    fstate
	col   int
	vline int
	pos   *token.Pos
}

func expectsNode(st fstate) bool {
	switch st {
	case expRoot, expEntryValue, expKeyNode, expValue, expFlowFirst, expFlowNode:
		return true
	}
	return false
}

func defaultTagMap() map[string]string {
	return map[string]string{
		"!":  "!",
		"!!": "tag:yaml.org,2002:",
	}
}

// NewParser parses normalized or raw input; a BOM is sniffed and the
// input transcoded to UTF-8 first.
func NewParser(d []byte, opts ...ParseOption) (*Parser, error) {
	nd, err := token.Normalize(d)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		sc:     token.NewScanner(nd),
		tagMap: defaultTagMap(),
	}
	for _, o := range opts {
		o(&p.opts)
	}
	return p, nil
}

// NewParserReader reads r fully and parses it.
func NewParserReader(r io.Reader, opts ...ParseOption) (*Parser, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewParser(d, opts...)
}

// Events parses d into a complete event sequence.
func Events(d []byte, opts ...ParseOption) ([]stream.Event, error) {
	p, err := NewParser(d, opts...)
	if err != nil {
		return nil, err
	}
	var res []stream.Event
	for {
		e, err := p.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, *e)
	}
}

// Next returns the next event, or io.EOF after the StreamEnd event.
func (p *Parser) Next() (*stream.Event, error) {
	for {
		if p.qi < len(p.q) {
			e := &p.q[p.qi]
			p.qi++
			if debug.Parse() {
				debug.Logf("parse: %s", e)
			}
			return e, nil
		}
		if p.err != nil {
			return nil, p.err
		}
		if p.done {
			return nil, io.EOF
		}
		p.q = p.q[:0]
		p.qi = 0
		if err := p.step(); err != nil {
			var pe *ParseError
			if !p.opts.resync || !errors.As(err, &pe) {
				p.err = err
				return nil, err
			}
			p.errs = append(p.errs, err)
			if rerr := p.resync(); rerr != nil {
				p.err = rerr
				return nil, rerr
			}
		}
	}
}

// ReadEvent makes Parser a stream.EventReader.
func (p *Parser) ReadEvent() (*stream.Event, error) {
	return p.Next()
}

// Errs returns the errors collected so far when resynchronization is
// enabled.
func (p *Parser) Errs() []error {
	return p.errs
}

func (p *Parser) peek() (*token.Token, error) {
	for !p.havePeek {
		t, err := p.sc.Next()
		if err != nil {
			return nil, err
		}
		if t.Type == token.TComment {
			if p.opts.onComment != nil {
				p.opts.onComment(t)
			}
			continue
		}
		p.tok = *t
		p.havePeek = true
	}
	return &p.tok, nil
}

func (p *Parser) take() *token.Token {
	p.havePeek = false
	return &p.tok
}

func (p *Parser) emit(e stream.Event) {
	p.q = append(p.q, e)
}

func (p *Parser) top() *pframe {
	if len(p.frames) == 0 {
		return nil
	}
	return &p.frames[len(p.frames)-1]
}

func (p *Parser) pop() {
	p.frames = p.frames[:len(p.frames)-1]
}

func (p *Parser) takeProps() (anchor, tag string) {
	anchor, tag = p.pendAnchor, p.pendTag
	p.pendAnchor, p.pendTag, p.pendPos = "", "", nil
	return anchor, tag
}

func (p *Parser) resolveTag(raw string, pos *token.Pos) (string, error) {
	if raw == "" {
		return "", nil
	}
	h, s := token.TagParts(raw)
	if h == "" {
		return s, nil // verbatim
	}
	pfx, ok := p.tagMap[h]
	if !ok {
		return "", NewParseError(fmt.Errorf("%w %q", ErrUnknownTagHandle, h), pos)
	}
	return pfx + s, nil
}

// ensureDoc opens an implicit document when content arrives outside
// one. Directives demand an explicit "---".
func (p *Parser) ensureDoc(tok *token.Token) error {
	if len(p.frames) > 0 {
		return nil
	}
	if len(p.directives) > 0 {
		return errAt(tok, ErrStrayDirective)
	}
	p.openDoc(false, tok.Pos)
	return nil
}

func (p *Parser) openDoc(explicit bool, pos *token.Pos) {
	p.emit(stream.Event{
		Type:       stream.EventDocumentStart,
		Pos:        pos,
		Explicit:   explicit,
		Directives: p.directives,
	})
	p.directives = nil
	p.frames = append(p.frames, pframe{kind: fDoc, st: expRoot, pos: pos})
}

// emitEmptyNode synthesizes the implicit empty scalar for a missing
// key, value or entry, consuming any pending properties.
func (p *Parser) emitEmptyNode(pos *token.Pos) {
	anchor, tag := p.takeProps()
	p.emit(stream.Event{
		Type:   stream.EventScalar,
		Pos:    pos,
		Anchor: anchor,
		Tag:    tag,
		Style:  token.PlainStyle,
	})
	p.nodeDone(pos)
}

// nodeDone advances the top frame's state after a complete node.
func (p *Parser) nodeDone(pos *token.Pos) {
	f := p.top()
	if f == nil {
		return
	}
	switch f.kind {
	case fDoc:
		f.st = expDocEnd
	case fBlockSeq:
		f.st = expEntry
	case fBlockMap:
		if f.st == expKeyNode {
			f.st = expValueMark
		} else {
			f.st = expKey
		}
	case fFlowSeq:
		f.st = expFlowEntry
	case fFlowMap:
		switch f.st {
		case expKeyNode:
			f.st = expValueMark
		case expFlowFirst, expFlowNode:
			f.st = expFlowKeyDone
		default:
			f.st = expFlowEntry
		}
	case fFlowPair:
		if f.st == expKeyNode {
			f.st = expValueMark
		} else {
			p.emit(stream.Event{Type: stream.EventMappingEnd, Pos: pos})
			p.pop()
			p.nodeDone(pos)
		}
	}
}

// closeFrame ends the top collection frame and reports the node to its
// parent.
func (p *Parser) closeFrame(pos *token.Pos) {
	f := p.top()
	switch f.kind {
	case fBlockSeq, fFlowSeq:
		p.emit(stream.Event{Type: stream.EventSequenceEnd, Pos: pos})
	case fBlockMap, fFlowMap, fFlowPair:
		p.emit(stream.Event{Type: stream.EventMappingEnd, Pos: pos})
	}
	p.pop()
	p.nodeDone(pos)
}

// unwindBlock closes block frames that a token at column c terminates,
// synthesizing empty nodes for missing values. Flow frames and frames
// the token continues are left alone.
func (p *Parser) unwindBlock(tok *token.Token) {
	c := tok.Pos.Col()
	for {
		f := p.top()
		if f == nil {
			return
		}
		switch f.kind {
		case fBlockMap:
			switch f.st {
			case expKey:
				if c < f.col || (c == f.col && tok.Type != token.TKey && tok.Type != token.TValue) {
					p.closeFrame(tok.Pos)
					continue
				}
				return
			case expValueMark:
				if tok.Type == token.TValue {
					return
				}
				f.st = expValue
				p.emitEmptyNode(tok.Pos)
				continue
			case expValue:
				if c < f.col {
					p.emitEmptyNode(tok.Pos)
					continue
				}
				if c == f.col && (tok.Type == token.TKey || tok.Type == token.TValue) {
					p.emitEmptyNode(tok.Pos)
					continue
				}
				return
			case expKeyNode:
				if tok.Type != token.TValue && c < f.col {
					p.emitEmptyNode(tok.Pos)
					continue
				}
				return
			default:
				return
			}
		case fBlockSeq:
			switch f.st {
			case expEntry:
				if c < f.col || (c == f.col && tok.Type != token.TSeqEntry) {
					p.closeFrame(tok.Pos)
					continue
				}
				return
			case expEntryValue:
				if c < f.col || (c == f.col && tok.Type == token.TSeqEntry) {
					p.emitEmptyNode(tok.Pos)
					continue
				}
				if c == f.col {
					p.emitEmptyNode(tok.Pos)
					continue
				}
				return
			default:
				return
			}
		default:
			return
		}
	}
}

// closeAll closes every open frame, ending the document if one is
// open. explicit marks the DocumentEnd as coming from a "..." marker.
func (p *Parser) closeAll(pos *token.Pos, explicit bool) {
	for len(p.frames) > 0 {
		f := p.top()
		if f.kind == fDoc {
			if f.st == expRoot {
				p.emitEmptyNode(pos)
			}
			p.emit(stream.Event{Type: stream.EventDocumentEnd, Pos: pos, Explicit: explicit})
			p.pop()
			p.tagMap = defaultTagMap()
			p.yamlSeen = false
			continue
		}
		if expectsNode(f.st) || f.st == expFlowKeyDone {
			if f.st == expFlowKeyDone {
				f.st = expValue
			}
			p.emitEmptyNode(pos)
			continue
		}
		if f.st == expValueMark {
			f.st = expValue
			p.emitEmptyNode(pos)
			continue
		}
		p.closeFrame(pos)
	}
}

func (p *Parser) step() error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	switch tok.Type {
	case token.TStreamStart:
		p.take()
		p.emit(stream.Event{Type: stream.EventStreamStart, Pos: tok.Pos})
		return nil
	case token.TStreamEnd:
		if p.pendPos != nil {
			return NewParseError(ErrDanglingProperty, p.pendPos)
		}
		p.take()
		if len(p.directives) > 0 {
			return errAt(tok, ErrStrayDirective)
		}
		p.closeAll(tok.Pos, false)
		p.emit(stream.Event{Type: stream.EventStreamEnd, Pos: tok.Pos})
		p.done = true
		return nil
	case token.TDirective:
		if len(p.frames) > 0 {
			return errTok(tok)
		}
		p.take()
		return p.directive(tok)
	case token.TDocStart:
		if p.pendPos != nil {
			return NewParseError(ErrDanglingProperty, p.pendPos)
		}
		p.take()
		p.closeAll(tok.Pos, false)
		p.openDoc(true, tok.Pos)
		return nil
	case token.TDocEnd:
		if p.pendPos != nil {
			return NewParseError(ErrDanglingProperty, p.pendPos)
		}
		p.take()
		if len(p.directives) > 0 {
			return errAt(tok, ErrStrayDirective)
		}
		p.closeAll(tok.Pos, true)
		return nil
	case token.TKey:
		return p.keyToken(tok)
	case token.TValue:
		return p.valueToken(tok)
	case token.TSeqEntry:
		return p.seqEntryToken(tok)
	case token.TAnchor, token.TTag:
		return p.propToken(tok)
	case token.TAlias:
		if p.pendPos != nil {
			return errAt(tok, ErrAliasProperty)
		}
		return p.nodeToken(tok)
	case token.TScalar, token.TFlowSeqStart, token.TFlowMapStart:
		return p.nodeToken(tok)
	case token.TFlowSeqEnd, token.TFlowMapEnd:
		return p.flowEndToken(tok)
	case token.TFlowEntry:
		return p.flowEntryToken(tok)
	}
	return errTok(tok)
}

func (p *Parser) directive(tok *token.Token) error {
	fields := strings.Fields(tok.Value)
	if len(fields) == 0 {
		return errAt(tok, ErrBadDirective)
	}
	switch fields[0] {
	case "YAML":
		if len(fields) != 2 {
			return errAt(tok, ErrBadDirective)
		}
		if p.yamlSeen {
			return errAt(tok, ErrDupYAMLDirective)
		}
		p.yamlSeen = true
		if !strings.HasPrefix(fields[1], "1.") {
			return NewParseError(fmt.Errorf("%w %s", ErrBadVersion, fields[1]), tok.Pos)
		}
	case "TAG":
		if len(fields) != 3 {
			return errAt(tok, ErrBadDirective)
		}
		handle := fields[1]
		if len(handle) < 1 || handle[0] != '!' {
			return errAt(tok, ErrBadDirective)
		}
		if _, dup := p.tagMap[handle]; dup && handle != "!" && handle != "!!" {
			return errAt(tok, ErrDupTagHandle)
		}
		p.tagMap[handle] = fields[2]
	default:
		// reserved directive, ignored
	}
	p.directives = append(p.directives, tok.Value)
	return nil
}

func (p *Parser) keyToken(tok *token.Token) error {
	if err := p.ensureDoc(tok); err != nil {
		return err
	}
	f := p.top()
	if f.kind == fBlockMap || f.kind == fBlockSeq {
		p.unwindBlock(tok)
		f = p.top()
	}
	c := tok.Pos.Col()
	switch f.kind {
	case fDoc:
		if f.st == expDocEnd {
			return errAt(tok, ErrMultipleRoots)
		}
		p.take()
		p.openBlockMap(tok, c)
		return nil
	case fBlockMap:
		switch f.st {
		case expKey:
			if c > f.col {
				return errAt(tok, ErrBadIndent)
			}
			p.take()
			f.st = expKeyNode
			return nil
		case expValue, expKeyNode:
			if c <= f.col {
				return errAt(tok, ErrBadIndent)
			}
			p.take()
			p.openBlockMap(tok, c)
			return nil
		}
		return errTok(tok)
	case fBlockSeq:
		if f.st != expEntryValue {
			return errTok(tok)
		}
		if c <= f.col {
			return errAt(tok, ErrBadIndent)
		}
		p.take()
		p.openBlockMap(tok, c)
		return nil
	case fFlowSeq:
		if f.st != expFlowFirst && f.st != expFlowNode {
			return errTok(tok)
		}
		// compact single-pair mapping entry
		p.take()
		p.emit(stream.Event{Type: stream.EventMappingStart, Pos: tok.Pos, Flow: true})
		p.frames = append(p.frames, pframe{kind: fFlowPair, st: expKeyNode, pos: tok.Pos})
		return nil
	case fFlowMap:
		if f.st != expFlowFirst && f.st != expFlowNode {
			return errTok(tok)
		}
		p.take()
		f.st = expKeyNode
		return nil
	case fFlowPair:
		return errTok(tok)
	}
	return errTok(tok)
}

func (p *Parser) openBlockMap(tok *token.Token, c int) {
	anchor, tag := p.takeProps()
	p.emit(stream.Event{
		Type:   stream.EventMappingStart,
		Pos:    tok.Pos,
		Anchor: anchor,
		Tag:    tag,
	})
	p.frames = append(p.frames, pframe{kind: fBlockMap, st: expKeyNode, col: c, pos: tok.Pos})
}

func (p *Parser) valueToken(tok *token.Token) error {
	if err := p.ensureDoc(tok); err != nil {
		return err
	}
	f := p.top()
	if f.kind == fBlockMap || f.kind == fBlockSeq {
		p.unwindBlock(tok)
		f = p.top()
	}
	switch f.kind {
	case fDoc:
		if f.st == expDocEnd {
			return errAt(tok, ErrMultipleRoots)
		}
		// ": value" with an empty implicit key
		p.take()
		p.openBlockMap(tok, tok.Pos.Col())
		f = p.top()
		f.st = expValue
		f.vline = tok.Pos.Line()
		p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
		return nil
	case fBlockMap:
		switch f.st {
		case expValueMark:
			p.take()
			f.st = expValue
			f.vline = tok.Pos.Line()
			return nil
		case expKeyNode:
			p.take()
			p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
			f.st = expValue
			f.vline = tok.Pos.Line()
			return nil
		case expKey:
			p.take()
			p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
			f.st = expValue
			f.vline = tok.Pos.Line()
			return nil
		}
		return errTok(tok)
	case fFlowMap:
		switch f.st {
		case expValueMark, expFlowKeyDone:
			p.take()
			f.st = expValue
			return nil
		case expKeyNode, expFlowFirst, expFlowNode:
			p.take()
			p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
			f.st = expValue
			return nil
		}
		return errTok(tok)
	case fFlowPair:
		switch f.st {
		case expValueMark:
			p.take()
			f.st = expValue
			return nil
		case expKeyNode:
			p.take()
			p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
			f.st = expValue
			return nil
		}
		return errTok(tok)
	case fFlowSeq:
		if f.st != expFlowFirst && f.st != expFlowNode {
			return errTok(tok)
		}
		// "[: v]" single-pair mapping with empty key
		p.take()
		p.emit(stream.Event{Type: stream.EventMappingStart, Pos: tok.Pos, Flow: true})
		p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
		p.frames = append(p.frames, pframe{kind: fFlowPair, st: expValue, pos: tok.Pos})
		return nil
	case fBlockSeq:
		if f.st != expEntryValue {
			return errTok(tok)
		}
		// "- : v" mapping entry with an empty key
		p.take()
		p.openBlockMap(tok, tok.Pos.Col())
		f = p.top()
		f.st = expValue
		f.vline = tok.Pos.Line()
		p.emit(stream.Event{Type: stream.EventScalar, Pos: tok.Pos, Style: token.PlainStyle})
		return nil
	}
	return errTok(tok)
}

func (p *Parser) seqEntryToken(tok *token.Token) error {
	if err := p.ensureDoc(tok); err != nil {
		return err
	}
	f := p.top()
	if f.kind == fBlockMap || f.kind == fBlockSeq {
		p.unwindBlock(tok)
		f = p.top()
	}
	c := tok.Pos.Col()
	switch f.kind {
	case fDoc:
		if f.st == expDocEnd {
			return errAt(tok, ErrMultipleRoots)
		}
		p.take()
		p.openBlockSeq(tok, c)
		return nil
	case fBlockSeq:
		switch f.st {
		case expEntry:
			p.take()
			f.st = expEntryValue
			return nil
		case expEntryValue:
			if c <= f.col {
				return errAt(tok, ErrBadIndent)
			}
			p.take()
			p.openBlockSeq(tok, c)
			return nil
		}
		return errTok(tok)
	case fBlockMap:
		if f.st != expValue {
			return errTok(tok)
		}
		if tok.Pos.Line() == f.vline {
			// "key: - x" on one line
			return errTok(tok)
		}
		if c < f.col {
			return errAt(tok, ErrBadIndent)
		}
		p.take()
		p.openBlockSeq(tok, c)
		return nil
	}
	return errTok(tok)
}

func (p *Parser) openBlockSeq(tok *token.Token, c int) {
	anchor, tag := p.takeProps()
	p.emit(stream.Event{
		Type:   stream.EventSequenceStart,
		Pos:    tok.Pos,
		Anchor: anchor,
		Tag:    tag,
	})
	p.frames = append(p.frames, pframe{kind: fBlockSeq, st: expEntryValue, col: c, pos: tok.Pos})
}

func (p *Parser) propToken(tok *token.Token) error {
	if err := p.ensureDoc(tok); err != nil {
		return err
	}
	f := p.top()
	if f.kind == fBlockMap || f.kind == fBlockSeq {
		p.unwindBlock(tok)
		f = p.top()
	}
	if !expectsNode(f.st) {
		if f.st == expDocEnd {
			return errAt(tok, ErrMultipleRoots)
		}
		return errTok(tok)
	}
	p.take()
	switch tok.Type {
	case token.TAnchor:
		if p.pendAnchor != "" {
			return errTok(tok)
		}
		p.pendAnchor = tok.Value
	case token.TTag:
		if p.pendTag != "" {
			return errTok(tok)
		}
		resolved, err := p.resolveTag(tok.Value, tok.Pos)
		if err != nil {
			return err
		}
		p.pendTag = resolved
	}
	if p.pendPos == nil {
		p.pendPos = tok.Pos
	}
	return nil
}

func (p *Parser) nodeToken(tok *token.Token) error {
	if err := p.ensureDoc(tok); err != nil {
		return err
	}
	f := p.top()
	if f.kind == fBlockMap || f.kind == fBlockSeq {
		p.unwindBlock(tok)
		f = p.top()
	}
	if !expectsNode(f.st) {
		if f.st == expDocEnd {
			return errAt(tok, ErrMultipleRoots)
		}
		return errTok(tok)
	}
	p.take()
	anchor, tag := p.takeProps()
	switch tok.Type {
	case token.TScalar:
		p.emit(stream.Event{
			Type:   stream.EventScalar,
			Pos:    tok.Pos,
			Anchor: anchor,
			Tag:    tag,
			Value:  tok.Value,
			Style:  tok.Style,
		})
		p.nodeDone(tok.Pos)
	case token.TAlias:
		p.emit(stream.Event{
			Type:  stream.EventAlias,
			Pos:   tok.Pos,
			Value: tok.Value,
		})
		p.nodeDone(tok.Pos)
	case token.TFlowSeqStart:
		p.emit(stream.Event{
			Type:   stream.EventSequenceStart,
			Pos:    tok.Pos,
			Anchor: anchor,
			Tag:    tag,
			Flow:   true,
		})
		p.frames = append(p.frames, pframe{kind: fFlowSeq, st: expFlowFirst, pos: tok.Pos})
	case token.TFlowMapStart:
		p.emit(stream.Event{
			Type:   stream.EventMappingStart,
			Pos:    tok.Pos,
			Anchor: anchor,
			Tag:    tag,
			Flow:   true,
		})
		p.frames = append(p.frames, pframe{kind: fFlowMap, st: expFlowFirst, pos: tok.Pos})
	}
	return nil
}

// completePair closes a compact single-pair mapping that is still
// pending when a separator or closing delimiter arrives.
func (p *Parser) completePair(pos *token.Pos) {
	f := p.top()
	if f == nil || f.kind != fFlowPair {
		return
	}
	switch f.st {
	case expKeyNode:
		p.emitEmptyNode(pos) // key
		f.st = expValue
		p.emitEmptyNode(pos) // value, closes the pair
	case expValueMark:
		f.st = expValue
		p.emitEmptyNode(pos)
	case expValue:
		p.emitEmptyNode(pos)
	}
}

func (p *Parser) flowEndToken(tok *token.Token) error {
	// pending properties attach to an implicit empty node
	if f := p.top(); f != nil && p.pendPos != nil && expectsNode(f.st) {
		p.emitEmptyNode(tok.Pos)
	}
	p.completePair(tok.Pos)
	f := p.top()
	if f == nil {
		return errTok(tok)
	}
	wantSeq := tok.Type == token.TFlowSeqEnd
	switch f.kind {
	case fFlowSeq:
		if !wantSeq {
			return NewParseError(ErrUnclosedFlow, f.pos)
		}
	case fFlowMap:
		if wantSeq {
			return NewParseError(ErrUnclosedFlow, f.pos)
		}
		switch f.st {
		case expKeyNode:
			p.emitEmptyNode(tok.Pos)
			f.st = expValue
			p.emitEmptyNode(tok.Pos)
		case expValueMark, expFlowKeyDone, expValue:
			if f.st != expValue {
				f.st = expValue
			}
			p.emitEmptyNode(tok.Pos)
		}
	default:
		return errTok(tok)
	}
	p.take()
	p.closeFrame(tok.Pos)
	return nil
}

func (p *Parser) flowEntryToken(tok *token.Token) error {
	if f := p.top(); f != nil && p.pendPos != nil && expectsNode(f.st) {
		p.emitEmptyNode(tok.Pos)
	}
	p.completePair(tok.Pos)
	f := p.top()
	if f == nil {
		return errTok(tok)
	}
	switch f.kind {
	case fFlowSeq:
		if f.st != expFlowEntry {
			return errTok(tok)
		}
		p.take()
		f.st = expFlowNode
		return nil
	case fFlowMap:
		switch f.st {
		case expFlowEntry:
			p.take()
			f.st = expFlowNode
			return nil
		case expFlowKeyDone:
			f.st = expValue
			p.emitEmptyNode(tok.Pos)
			p.take()
			f.st = expFlowNode
			return nil
		case expValue:
			p.emitEmptyNode(tok.Pos)
			p.take()
			f.st = expFlowNode
			return nil
		}
		return errTok(tok)
	}
	return errTok(tok)
}

// resync skips input to the next document boundary after an error,
// closing whatever was open so the event stream stays well-formed.
func (p *Parser) resync() error {
	p.pendAnchor, p.pendTag, p.pendPos = "", "", nil
	p.directives = nil
	p.havePeek = false
	for {
		t, err := p.sc.Next()
		if err != nil {
			return err
		}
		switch t.Type {
		case token.TDocStart, token.TStreamEnd:
			p.closeAll(t.Pos, false)
			p.tok = *t
			p.havePeek = true
			return nil
		case token.TDocEnd:
			p.closeAll(t.Pos, true)
			return nil
		}
	}
}
