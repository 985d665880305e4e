/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"io"
	"sync"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jackal-xmpp/stravaganza/v2"
	"github.com/jackal-xmpp/stravaganza/v2/jid"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/simplexmpp/simplexmpp/bufferpool"
	"github.com/simplexmpp/simplexmpp/xmpp"
)

const streamHeaderName = "stream:stream"

// StreamConfig represents a stream transport configuration.
type StreamConfig struct {
	// JID is the session address reported when the stream goes online.
	JID *jid.JID

	// MaxStanzaSize defines the maximum stanza size that
	// can be read from the input. Zero means unlimited.
	MaxStanzaSize int
}

// Stream is a transport over an already negotiated XML stream:
// inbound elements are framed from r, outbound elements are written to w.
// It goes online as soon as it is started.
type Stream struct {
	id     string
	cfg    StreamConfig
	r      io.Reader
	w      io.Writer
	logger kitlog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	hnd     Handler

	releaseOnce sync.Once
	closeOnce   sync.Once
}

// NewStream returns a stream transport reading from r and writing to w.
func NewStream(r io.Reader, w io.Writer, cfg *StreamConfig, logger kitlog.Logger) *Stream {
	id := uuid.New()
	s := &Stream{
		id:     id,
		r:      r,
		w:      w,
		logger: kitlog.With(logger, "stream_id", id),
	}
	if cfg != nil {
		s.cfg = *cfg
	}
	return s
}

// ID returns the stream identifier used to tag log lines.
func (s *Stream) ID() string {
	return s.id
}

// Start satisfies Transport interface.
func (s *Stream) Start(h Handler) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.hnd = h
	s.mu.Unlock()

	go s.loop()
	return nil
}

// Send satisfies Transport interface.
func (s *Stream) Send(elem stravaganza.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)

	if err := elem.ToXML(buf, true); err != nil {
		level.Warn(s.logger).Log("msg", "failed to serialize stanza", "err", err)
		return
	}
	level.Debug(s.logger).Log("msg", "SEND", "xml", buf.String())
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		level.Warn(s.logger).Log("msg", "failed to write stanza", "err", err)
	}
}

// Close satisfies Transport interface.
// Underlying reader and writer are closed if they implement io.Closer.
func (s *Stream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	var err error
	s.releaseOnce.Do(func() { err = s.release() })
	s.notifyClose()
	return errors.Wrapf(err, "transport: closing stream %s", s.id)
}

func (s *Stream) release() error {
	var err error
	if c, ok := s.w.(io.Closer); ok {
		err = c.Close()
	}
	if c, ok := s.r.(io.Closer); ok && !sameEndpoint(s.r, s.w) {
		if rErr := c.Close(); err == nil {
			err = rErr
		}
	}
	return err
}

func (s *Stream) loop() {
	s.hnd.OnOnline(s.cfg.JID)

	p := xmpp.NewParser(s.r, xmpp.SocketStream, s.cfg.MaxStanzaSize)
	for {
		elem, err := p.Parse()
		if err != nil {
			if s.isClosed() {
				return
			}
			if err != io.EOF && err != xmpp.ErrStreamClosedByPeer {
				s.hnd.OnError(errors.Wrapf(err, "transport: reading stream %s", s.id))
			}
			s.notifyClose()
			return
		}
		if elem == nil || elem.Name() == streamHeaderName {
			continue
		}
		level.Debug(s.logger).Log("msg", "RECV", "xml", xmpp.String(elem))
		s.hnd.OnStanza(elem)
	}
}

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) notifyClose() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		hnd := s.hnd
		s.mu.Unlock()
		if hnd != nil {
			hnd.OnClose()
		}
	})
}

func sameEndpoint(r io.Reader, w io.Writer) bool {
	rw, ok := w.(io.Reader)
	return ok && rw == r
}
