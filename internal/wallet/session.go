package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const DefaultConnectDelay = 2 * time.Second

var (
	ErrConnectInProgress = errors.New("wallet: connection already in progress")
	ErrConnectCanceled   = errors.New("wallet: connection canceled")
	ErrNotConnected      = errors.New("wallet: not connected")
)

type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

type Level int

const (
	Info Level = iota
	Success
	Failure
)

// Notice is a transient user-facing message about the connection.
type Notice struct {
	Level Level
	Text  string
}

// Session is the wallet-connection provider: a status, an account
// identifier and a signed challenge proving the key is present.
type Session struct {
	mu        sync.Mutex
	status    Status
	delay     time.Duration
	wif       string
	key       *ec.PrivateKey
	account   string
	challenge []byte
	sig       *ec.Signature
	// gen counts resets so a handshake can tell it was superseded.
	gen uint64
}

type Option func(*Session)

func WithConnectDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithWIF pins the session to an existing key instead of a fresh one.
func WithWIF(wif string) Option {
	return func(s *Session) { s.wif = wif }
}

func NewSession(opts ...Option) *Session {
	s := &Session{delay: DefaultConnectDelay}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) IsConnected() bool { return s.Status() == Connected }

// Account is the 0x-prefixed identifier, empty unless connected.
func (s *Session) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Short abbreviates the account as 0x742d...4f3a.
func (s *Session) Short() string {
	return Shorten(s.Account())
}

func Shorten(account string) string {
	if len(account) <= 10 {
		return account
	}
	return account[:6] + "..." + account[len(account)-4:]
}

// Connect waits out the handshake delay, then loads or generates the key and
// signs a fresh challenge. Connecting an already connected session is a no-op.
// A Disconnect during the handshake wins: Connect then fails with
// ErrConnectCanceled and leaves the session disconnected.
func (s *Session) Connect(ctx context.Context) (Notice, error) {
	s.mu.Lock()
	switch s.status {
	case Connected:
		s.mu.Unlock()
		return Notice{Level: Info, Text: "Wallet already connected"}, nil
	case Connecting:
		s.mu.Unlock()
		return Notice{}, ErrConnectInProgress
	}
	s.status = Connecting
	gen := s.gen
	s.mu.Unlock()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.abort(gen)
		return Notice{Level: Failure, Text: "Wallet connection canceled"}, fmt.Errorf("%w: %v", ErrConnectCanceled, ctx.Err())
	case <-timer.C:
	}

	key, err := s.loadKey()
	if err != nil {
		s.abort(gen)
		return Notice{Level: Failure, Text: "Wallet connection failed"}, err
	}

	challenge := make([]byte, 32)
	if _, err := rand.Read(challenge); err != nil {
		s.abort(gen)
		return Notice{Level: Failure, Text: "Wallet connection failed"}, fmt.Errorf("challenge: %w", err)
	}
	sig, err := key.Sign(crypto.Sha256d(challenge))
	if err != nil {
		s.abort(gen)
		return Notice{Level: Failure, Text: "Wallet connection failed"}, fmt.Errorf("sign challenge: %w", err)
	}

	account := AccountFor(key)

	s.mu.Lock()
	if s.status != Connecting || s.gen != gen {
		s.mu.Unlock()
		log.Printf("[wallet] Handshake superseded, dropping %s", Shorten(account))
		return Notice{Level: Failure, Text: "Wallet connection canceled"}, ErrConnectCanceled
	}
	s.status = Connected
	s.key = key
	s.account = account
	s.challenge = challenge
	s.sig = sig
	s.mu.Unlock()

	log.Printf("[wallet] Connected %s", Shorten(account))
	return Notice{Level: Success, Text: "Wallet connected successfully! Ready to collect royalties."}, nil
}

func (s *Session) loadKey() (*ec.PrivateKey, error) {
	if s.wif == "" {
		key, err := ec.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		return key, nil
	}
	key, err := ec.PrivateKeyFromWif(s.wif)
	if err != nil {
		return nil, fmt.Errorf("decode WIF: %w", err)
	}
	return key, nil
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

// abort resets only if no other reset happened since the handshake began.
func (s *Session) abort(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.clear()
	}
}

func (s *Session) clear() {
	s.gen++
	s.status = Disconnected
	s.key = nil
	s.account = ""
	s.challenge = nil
	s.sig = nil
}

func (s *Session) Disconnect() Notice {
	s.reset()
	log.Println("[wallet] Disconnected")
	return Notice{Level: Info, Text: "Wallet disconnected"}
}

// Verified reports whether the session holds a challenge signature that
// checks against its own key.
func (s *Session) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Connected || s.sig == nil || s.key == nil {
		return false
	}
	return s.sig.Verify(crypto.Sha256d(s.challenge), s.key.PubKey())
}

// Sign produces a DER signature of the double-SHA256 of data.
func (s *Session) Sign(data []byte) ([]byte, error) {
	s.mu.Lock()
	key := s.key
	s.mu.Unlock()
	if key == nil {
		return nil, ErrNotConnected
	}
	sig, err := key.Sign(crypto.Sha256d(data))
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return sig.Serialize(), nil
}

// AccountFor derives the 20-byte account identifier from the compressed
// public key.
func AccountFor(key *ec.PrivateKey) string {
	return "0x" + hex.EncodeToString(crypto.Hash160(key.PubKey().Compressed()))
}
