/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package xmpp

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackal-xmpp/stravaganza/v2"
)

const rootElementIndex = -1

const (
	streamName = "stream"
)

// ParsingMode defines the way in which special parsed element
// should be considered or not according to the reader nature.
type ParsingMode int

const (
	// DefaultMode treats incoming elements as provided from raw byte reader.
	DefaultMode = ParsingMode(iota)

	// SocketStream treats incoming elements as provided from a socket transport.
	SocketStream
)

// ErrTooLargeStanza is returned by Parse when the size of
// the incoming stanza is too large.
var ErrTooLargeStanza = errors.New("xmpp: too large stanza")

// ErrStreamClosedByPeer is returned by Parse when peer closes the stream.
var ErrStreamClosedByPeer = errors.New("xmpp: stream closed by peer")

type parsingFrame struct {
	b    *stravaganza.Builder
	name string
	text strings.Builder
}

// Parser reads a continuous XML stream and builds one immutable element
// per top-level element.
type Parser struct {
	dec           *xml.Decoder
	mode          ParsingMode
	nextElement   stravaganza.Element
	index         int
	stack         []*parsingFrame
	lastOffset    int64
	maxStanzaSize int64
}

// NewParser creates an empty Parser instance.
// A zero maxStanzaSize disables the size limit.
func NewParser(reader io.Reader, mode ParsingMode, maxStanzaSize int) *Parser {
	return &Parser{
		dec:           xml.NewDecoder(reader),
		mode:          mode,
		index:         rootElementIndex,
		maxStanzaSize: int64(maxStanzaSize),
	}
}

// Parse parses next available XML element from reader.
// Processing instructions yield a nil element and a nil error.
func (p *Parser) Parse() (stravaganza.Element, error) {
	for {
		t, err := p.dec.RawToken()
		if err != nil {
			return nil, err
		}
		off := p.dec.InputOffset()
		if p.maxStanzaSize > 0 && off-p.lastOffset > p.maxStanzaSize {
			return nil, ErrTooLargeStanza
		}
		switch t1 := t.(type) {
		case xml.ProcInst:
			p.lastOffset = off
			return nil, nil

		case xml.StartElement:
			p.startElement(t1)
			if p.mode == SocketStream && t1.Name.Local == streamName && t1.Name.Space == streamName {
				p.closeElement()
				return p.popElement(), nil
			}

		case xml.CharData:
			if p.index != rootElementIndex {
				p.stack[p.index].text.Write(t1)
			}

		case xml.EndElement:
			if p.mode == SocketStream && t1.Name.Local == streamName && t1.Name.Space == streamName {
				return nil, ErrStreamClosedByPeer
			}
			if err := p.endElement(t1); err != nil {
				return nil, err
			}
			if p.index == rootElementIndex {
				return p.popElement(), nil
			}
		}
	}
}

func (p *Parser) startElement(t xml.StartElement) {
	var attrs []stravaganza.Attribute
	for _, a := range t.Attr {
		attrs = append(attrs, stravaganza.Attribute{Label: xmlName(a.Name.Space, a.Name.Local), Value: a.Value})
	}
	name := xmlName(t.Name.Space, t.Name.Local)
	p.stack = append(p.stack, &parsingFrame{
		b:    stravaganza.NewBuilder(name).WithAttributes(attrs...),
		name: name,
	})
	p.index = len(p.stack) - 1
}

func (p *Parser) endElement(t xml.EndElement) error {
	name := xmlName(t.Name.Space, t.Name.Local)
	if p.index == rootElementIndex || p.stack[p.index].name != name {
		return fmt.Errorf("xmpp: unexpected end element </%s>", name)
	}
	p.closeElement()
	return nil
}

// closeElement builds the innermost open element and attaches it to its parent.
// Character data split by comments or entity boundaries is joined into one text.
func (p *Parser) closeElement() {
	frame := p.stack[p.index]
	p.stack = p.stack[:p.index]

	b := frame.b
	if frame.text.Len() > 0 {
		b = b.WithText(frame.text.String())
	}
	element := b.Build()

	p.index = len(p.stack) - 1
	if p.index == rootElementIndex {
		p.nextElement = element
	} else {
		parent := p.stack[p.index]
		parent.b = parent.b.WithChild(element)
	}
}

func (p *Parser) popElement() stravaganza.Element {
	p.lastOffset = p.dec.InputOffset()
	elem := p.nextElement
	p.nextElement = nil
	return elem
}

func xmlName(space, local string) string {
	if len(space) > 0 {
		return space + ":" + local
	}
	return local
}
