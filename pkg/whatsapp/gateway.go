package whatsapp

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/metrics"
)

var ErrSessionNotReady = errors.New("whatsapp session is not ready")

// Gateway is the process-wide handle to the session. It is created empty,
// receives the session once it is opened, and is marked ready after login.
// Everything that needs the session gets the Gateway passed in explicitly.
type Gateway struct {
	name    string
	session atomic.Pointer[Session]
	ready   atomic.Bool
}

func NewGateway(sessionName string) *Gateway {
	return &Gateway{name: sessionName}
}

func (g *Gateway) Attach(s *Session) {
	g.session.Store(s)
}

func (g *Gateway) MarkReady() {
	g.ready.Store(true)
	metrics.SetSessionReady(true)
}

func (g *Gateway) Ready() bool {
	return g.ready.Load() && g.session.Load() != nil
}

// SendText forwards to the session, or fails with ErrSessionNotReady while
// the session has not finished logging in.
func (g *Gateway) SendText(ctx context.Context, recipient string, text string) error {
	s := g.session.Load()
	if s == nil || !g.ready.Load() {
		return ErrSessionNotReady
	}
	return s.SendText(ctx, recipient, text)
}

func (g *Gateway) Status() Status {
	s := g.session.Load()
	if s == nil {
		return Status{SessionName: g.name}
	}
	status := s.Status()
	status.Ready = g.ready.Load()
	return status
}

func (g *Gateway) Pairing() (Pairing, bool) {
	s := g.session.Load()
	if s == nil {
		return Pairing{}, false
	}
	return s.Pairing()
}

func (g *Gateway) Reconnect() error {
	s := g.session.Load()
	if s == nil {
		return ErrSessionNotReady
	}
	return s.Reconnect()
}

func (g *Gateway) Close() {
	if s := g.session.Swap(nil); s != nil {
		g.ready.Store(false)
		metrics.SetSessionReady(false)
		s.Close()
	}
}
