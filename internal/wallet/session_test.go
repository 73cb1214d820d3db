package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const testWIF = "KwdMAjGmerYanjeui5SHS7JkmpZvVipYvB2LJGU1ZxJwYvP98617"

func TestConnect(t *testing.T) {
	s := NewSession(WithConnectDelay(0))
	if s.Status() != Disconnected {
		t.Fatalf("expected disconnected, got %s", s.Status())
	}

	n, err := s.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if n.Level != Success {
		t.Errorf("expected success notice, got %+v", n)
	}
	if !s.IsConnected() {
		t.Fatalf("expected connected, got %s", s.Status())
	}

	acct := s.Account()
	if !strings.HasPrefix(acct, "0x") || len(acct) != 42 {
		t.Errorf("unexpected account format %q", acct)
	}
	if !s.Verified() {
		t.Error("expected challenge signature to verify")
	}
}

func TestConnect_AlreadyConnected(t *testing.T) {
	s := NewSession(WithConnectDelay(0))
	if _, err := s.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	acct := s.Account()
	n, err := s.Connect(context.Background())
	if err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if n.Level != Info || s.Account() != acct {
		t.Errorf("second connect changed the session: %+v", n)
	}
}

func TestConnect_Canceled(t *testing.T) {
	s := NewSession(WithConnectDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Connect(ctx)
	if !errors.Is(err, ErrConnectCanceled) {
		t.Fatalf("expected ErrConnectCanceled, got %v", err)
	}
	if s.Status() != Disconnected {
		t.Errorf("expected disconnected after cancel, got %s", s.Status())
	}
}

func TestConnect_InProgress(t *testing.T) {
	s := NewSession(WithConnectDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Connect(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for s.Status() != Connecting {
		if time.Now().After(deadline) {
			t.Fatal("session never entered connecting")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := s.Connect(context.Background()); !errors.Is(err, ErrConnectInProgress) {
		t.Errorf("expected ErrConnectInProgress, got %v", err)
	}

	cancel()
	<-done
}

func TestConnect_WIFIsStable(t *testing.T) {
	a := NewSession(WithConnectDelay(0), WithWIF(testWIF))
	b := NewSession(WithConnectDelay(0), WithWIF(testWIF))
	if _, err := a.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.Account() != b.Account() {
		t.Errorf("same key gave different accounts: %s vs %s", a.Account(), b.Account())
	}
}

func TestConnect_BadWIF(t *testing.T) {
	s := NewSession(WithConnectDelay(0), WithWIF("not-a-wif"))
	n, err := s.Connect(context.Background())
	if err == nil {
		t.Fatal("expected error for bad WIF")
	}
	if n.Level != Failure || s.Status() != Disconnected {
		t.Errorf("expected failed disconnected session, got %+v %s", n, s.Status())
	}
}

func TestDisconnect(t *testing.T) {
	s := NewSession(WithConnectDelay(0))
	if _, err := s.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := s.Disconnect()
	if n.Text != "Wallet disconnected" {
		t.Errorf("unexpected notice %q", n.Text)
	}
	if s.Status() != Disconnected || s.Account() != "" || s.Verified() {
		t.Error("disconnect left session state behind")
	}
	if _, err := s.Sign([]byte("x")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestDisconnectDuringConnect(t *testing.T) {
	s := NewSession(WithConnectDelay(30 * time.Millisecond))

	errc := make(chan error, 1)
	go func() {
		_, err := s.Connect(context.Background())
		errc <- err
	}()

	deadline := time.Now().Add(time.Second)
	for s.Status() != Connecting {
		if time.Now().After(deadline) {
			t.Fatal("never entered connecting")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(5 * time.Millisecond)
	s.Disconnect()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrConnectCanceled) {
			t.Fatalf("expected ErrConnectCanceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Connect did not return")
	}
	if s.Status() != Disconnected {
		t.Errorf("expected disconnected, got %s", s.Status())
	}
	if s.Account() != "" || s.Verified() {
		t.Errorf("handshake leaked into a disconnected session: %q", s.Account())
	}
}

func TestStaleConnectKeepsNewSession(t *testing.T) {
	s := NewSession(WithConnectDelay(100 * time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := s.Connect(ctx)
		errc <- err
	}()
	for s.Status() != Connecting {
		time.Sleep(time.Millisecond)
	}
	s.Disconnect()

	second := make(chan error, 1)
	go func() {
		_, err := s.Connect(context.Background())
		second <- err
	}()
	for s.Status() != Connecting {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-errc; !errors.Is(err, ErrConnectCanceled) {
		t.Fatalf("first Connect: expected ErrConnectCanceled, got %v", err)
	}
	if s.Status() != Connecting {
		t.Fatalf("stale cancel reset the newer handshake: %s", s.Status())
	}
	if err := <-second; err != nil {
		t.Fatalf("second Connect: %v", err)
	}
	if !s.IsConnected() || !s.Verified() {
		t.Errorf("expected the second handshake to connect, got %s", s.Status())
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0x742d35cc6634c0532925a3b844bc454e4f3a", "0x742d...4f3a"},
		{"0x1234", "0x1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Shorten(tt.in); got != tt.want {
			t.Errorf("Shorten(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
