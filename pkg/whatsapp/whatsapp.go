package whatsapp

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/mdp/qrterminal/v3"
	qrCode "github.com/skip2/go-qrcode"
	"google.golang.org/protobuf/proto"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waCompanionReg"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/metrics"
)

var (
	ErrClientNotConnected = errors.New("WhatsApp Client is not Connected")
	ErrClientNotLoggedIn  = errors.New("WhatsApp Client is not Logged In")
	ErrClientNotPaired    = errors.New("WhatsApp Client Store ID is Empty, Please Re-Login and Scan QR Code Again")
	ErrClientLoggedOut    = errors.New("WhatsApp Client was logged out")
)

const (
	PairingQR    = "qr"
	PairingPhone = "phone"

	pairPhoneCodeTTL = 160 * time.Second
	bodyPreviewLen   = 64
)

// Pairing is the code a user has to scan or type to link this session.
type Pairing struct {
	Kind      string    `json:"kind"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Status struct {
	SessionName string `json:"session_name"`
	Ready       bool   `json:"ready"`
	Connected   bool   `json:"connected"`
	LoggedIn    bool   `json:"logged_in"`
	JID         string `json:"jid,omitempty"`
	PushName    string `json:"push_name,omitempty"`
	WAVersion   string `json:"wa_version,omitempty"`
}

// Session owns the single whatsmeow client of the process.
type Session struct {
	cfg    Config
	db     *sql.DB
	client *whatsmeow.Client

	handlersMu sync.RWMutex
	handlers   []MessageHandler

	pairingMu sync.RWMutex
	pairing   *Pairing

	// loginResult carries the outcome of the connection attempt Login is waiting on.
	loginResult chan error
}

// Open loads (or creates) the device stored under the session folder and
// prepares a client for it. Nothing is sent over the network yet.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	db, container, err := openDatastore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load device: %w", err)
	}

	store.DeviceProps.Os = proto.String(cfg.DeviceName)
	store.DeviceProps.PlatformType = waCompanionReg.DeviceProps_CHROME.Enum()
	store.DeviceProps.RequireFullSync = proto.Bool(false)

	client := whatsmeow.NewClient(device, log.WhatsMeow("Client"))
	if cfg.ProxyURL != "" {
		if err := client.SetProxyAddress(cfg.ProxyURL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set proxy: %w", err)
		}
	}
	client.EnableAutoReconnect = true
	client.AutoTrustIdentity = true

	s := &Session{
		cfg:         cfg,
		db:          db,
		client:      client,
		loginResult: make(chan error, 1),
	}
	client.AddEventHandler(s.handleEvent)

	return s, nil
}

func (s *Session) Name() string {
	return s.cfg.SessionName
}

// Login blocks until the session is connected and logged in, pairing a new
// device by QR code or phone pairing code when nothing is stored yet.
func (s *Session) Login(ctx context.Context) error {
	if s.cfg.LoginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LoginTimeout)
		defer cancel()
	}

	if s.client.Store.ID != nil {
		log.Session(s.Name(), "login").Info("Restoring stored WhatsApp session")
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		return s.waitLoggedIn(ctx)
	}

	return s.pair(ctx)
}

func (s *Session) pair(ctx context.Context) error {
	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("open qr channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	phoneRequested := false
	for {
		select {
		case <-ctx.Done():
			s.client.Disconnect()
			return ctx.Err()
		case evt, ok := <-qrChan:
			if !ok {
				return errors.New("whatsapp qr channel closed before delivering a code")
			}
			switch {
			case evt.Event == "code":
				if s.cfg.PairPhone != "" {
					if phoneRequested {
						continue
					}
					phoneRequested = true
					if err := s.requestPhoneCode(ctx); err != nil {
						s.client.Disconnect()
						return err
					}
					continue
				}
				s.showQR(evt.Code, evt.Timeout)
			case evt.Event == whatsmeow.QRChannelSuccess.Event:
				s.clearPairing()
				log.Session(s.Name(), "login").Info("WhatsApp device paired")
				return s.waitLoggedIn(ctx)
			case evt.Event == whatsmeow.QRChannelTimeout.Event:
				s.clearPairing()
				return errors.New("whatsapp qr channel timed out")
			case evt.Event == whatsmeow.QRChannelErrUnexpectedEvent.Event:
				return errors.New("whatsapp qr channel entered an unexpected state")
			case evt.Event == whatsmeow.QRChannelClientOutdated.Event:
				return ErrWAVersionOutdatedForQR
			case evt.Event == whatsmeow.QRChannelScannedWithoutMultidevice.Event:
				log.Session(s.Name(), "login").Warn("QR code scanned without multi-device enabled, waiting for a new scan")
			case evt.Event == "error":
				if evt.Error != nil {
					return evt.Error
				}
				return errors.New("whatsapp qr channel reported an unspecified error")
			}
		}
	}
}

func (s *Session) requestPhoneCode(ctx context.Context) error {
	code, err := s.client.PairPhone(ctx, s.cfg.PairPhone, true, whatsmeow.PairClientChrome, "Chrome ("+runtime.GOOS+")")
	if err != nil {
		return fmt.Errorf("request pairing code: %w", err)
	}
	s.setPairing(Pairing{
		Kind:      PairingPhone,
		Code:      code,
		ExpiresAt: time.Now().Add(pairPhoneCodeTTL),
	})
	log.Session(s.Name(), "login").WithField("code", code).Info("Enter this pairing code on the phone under Linked Devices")
	return nil
}

func (s *Session) showQR(code string, timeout time.Duration) {
	s.setPairing(Pairing{
		Kind:      PairingQR,
		Code:      code,
		ExpiresAt: time.Now().Add(timeout),
	})
	if s.cfg.QRTerminal {
		qrterminal.GenerateHalfBlock(code, qrterminal.L, os.Stdout)
	}
	log.Session(s.Name(), "login").WithField("expires_in", timeout.String()).Info("Scan the QR code with WhatsApp to link this gateway")
}

func (s *Session) waitLoggedIn(ctx context.Context) error {
	if s.client.IsLoggedIn() {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-s.loginResult:
		return err
	}
}

func (s *Session) signalLogin(err error) {
	select {
	case s.loginResult <- err:
	default:
	}
}

func (s *Session) setPairing(p Pairing) {
	s.pairingMu.Lock()
	s.pairing = &p
	s.pairingMu.Unlock()
}

func (s *Session) clearPairing() {
	s.pairingMu.Lock()
	s.pairing = nil
	s.pairingMu.Unlock()
}

// Pairing returns the pending pairing code, if one is still valid.
func (s *Session) Pairing() (Pairing, bool) {
	s.pairingMu.RLock()
	defer s.pairingMu.RUnlock()
	if s.pairing == nil || time.Now().After(s.pairing.ExpiresAt) {
		return Pairing{}, false
	}
	return *s.pairing, true
}

// OnMessage registers a handler for every relevant incoming message.
// Handlers run on whatsmeow's event goroutine and should not block.
func (s *Session) OnMessage(handler MessageHandler) {
	s.handlersMu.Lock()
	s.handlers = append(s.handlers, handler)
	s.handlersMu.Unlock()
}

func (s *Session) emit(msg InboundMessage) {
	s.handlersMu.RLock()
	handlers := make([]MessageHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		handler(msg)
	}
}

func (s *Session) handleEvent(evt interface{}) {
	switch e := evt.(type) {
	case *events.Message:
		msg, ok := inboundFromEvent(e)
		if !ok {
			return
		}
		log.Session(s.Name(), "message").
			WithField("from", log.MaskID(msg.From)).
			WithField("message_id", msg.ID).
			WithField("body", log.Preview(msg.Body, bodyPreviewLen)).
			Info("Message received")
		s.emit(msg)
	case *events.Connected:
		log.Session(s.Name(), "event").Info("Client connected")
		s.signalLogin(nil)
	case *events.Disconnected:
		log.Session(s.Name(), "event").Warn("Client disconnected")
		metrics.SetSessionReady(false)
	case *events.LoggedOut:
		log.Session(s.Name(), "event").WithField("reason", e.Reason.String()).Error("Client logged out")
		metrics.SetSessionReady(false)
		s.signalLogin(ErrClientLoggedOut)
	case *events.StreamReplaced:
		log.Session(s.Name(), "event").Warn("Client stream replaced by another connection")
		metrics.SetSessionReady(false)
	case *events.PairSuccess:
		log.Session(s.Name(), "event").WithField("jid", log.MaskID(e.ID.String())).Info("Client pair success")
	case *events.KeepAliveTimeout:
		log.Session(s.Name(), "event").Warn(fmt.Sprintf("Client keepalive timeout, errors=%d, lastSuccess=%s", e.ErrorCount, e.LastSuccess.Format(time.RFC3339)))
	case *events.TemporaryBan:
		log.Session(s.Name(), "event").Error(fmt.Sprintf("Client temporarily banned, reason=%s, expires=%s", e.Code, e.Expire))
		s.signalLogin(fmt.Errorf("whatsapp temporary ban: %s", e.Code))
	case *events.ConnectFailure:
		log.Session(s.Name(), "event").Error(fmt.Sprintf("Client connection failure, reason=%s, message=%s", e.Reason, e.Message))
		s.signalLogin(fmt.Errorf("whatsapp connect failure: %s", e.Reason))
	}
}

func (s *Session) isClientOK() error {
	if !s.client.IsConnected() {
		return ErrClientNotConnected
	}
	if !s.client.IsLoggedIn() {
		return ErrClientNotLoggedIn
	}
	return nil
}

// SendText makes exactly one attempt to deliver a text message.
func (s *Session) SendText(ctx context.Context, recipient string, text string) error {
	if err := s.isClientOK(); err != nil {
		return err
	}
	to, err := RecipientJID(recipient)
	if err != nil {
		return err
	}

	msgContent := &waE2E.Message{
		Conversation: proto.String(text),
	}
	_, err = s.client.SendMessage(ctx, to, msgContent)
	return err
}

func (s *Session) Status() Status {
	status := Status{
		SessionName: s.Name(),
		Connected:   s.client.IsConnected(),
		LoggedIn:    s.client.IsLoggedIn(),
		PushName:    s.client.Store.PushName,
	}
	if s.client.Store.ID != nil {
		status.JID = log.MaskID(LegacyID(*s.client.Store.ID))
	}
	return status
}

func (s *Session) Reconnect() error {
	s.client.Disconnect()

	if s.client.Store.ID == nil {
		return ErrClientNotPaired
	}
	return s.client.Connect()
}

func (s *Session) Close() {
	s.client.Disconnect()
	if err := s.db.Close(); err != nil {
		log.Session(s.Name(), "close").WithError(err).Warn("Failed to close datastore")
	}
}

// QRDataURL renders a pairing code as a PNG data URL.
func QRDataURL(code string) (string, error) {
	qrPNG, err := qrCode.Encode(code, qrCode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG), nil
}
