package maskpaint

import (
	"errors"
	"image"
	"sync"

	"github.com/google/uuid"
)

// Session is one mask editing session over a single source image. It ends
// with either a successful Save or a Cancel.
type Session struct {
	id  string
	eng *Engine

	mu     sync.Mutex
	closed bool
}

// NewSession loads img into a new engine configured with opts.
func NewSession(img image.Image, opts ...Option) (*Session, error) {
	eng := NewEngine(opts...)
	if err := eng.Load(img); err != nil {
		return nil, err
	}
	s := &Session{id: uuid.NewString(), eng: eng}
	Logger().Info("maskpaint: session opened", "id", s.id)
	return s, nil
}

// ID returns the unique session id.
func (s *Session) ID() string { return s.id }

// Engine returns the drawing engine of the session.
func (s *Session) Engine() *Engine { return s.eng }

// Closed reports whether the session has been saved or cancelled.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Save composes the mask and closes the session. When encoding fails the
// session stays open so the user can retry.
func (s *Session) Save() (*MaskImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	m, err := s.eng.ComposeMask()
	if err != nil {
		if errors.Is(err, ErrEncoding) {
			Logger().Warn("maskpaint: save failed, session kept open", "id", s.id, "error", err)
		}
		return nil, err
	}
	s.closed = true
	Logger().Info("maskpaint: session saved", "id", s.id)
	return m, nil
}

// Cancel discards the overlay and closes the session without output.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.eng.ClearOverlay()
	s.closed = true
	Logger().Info("maskpaint: session cancelled", "id", s.id)
	return nil
}
