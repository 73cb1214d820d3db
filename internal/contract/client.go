package contract

import (
	"context"
	"log"
	"math/big"
	"sync"
)

// Client is the typed binding to the deployed royalty contract. Mutating
// calls return as soon as the transaction is submitted; completion arrives
// on Watch.
type Client interface {
	RegisterArtist(ctx context.Context, opts TxOpts, name, bio string) (TxHash, error)
	UploadTrack(ctx context.Context, opts TxOpts, name, artist, contentHash string, royaltyRate uint64) (TxHash, error)
	RecordStream(ctx context.Context, opts TxOpts, trackID, duration uint64) (TxHash, error)
	GetTrackInfo(ctx context.Context, trackID uint64) (*TrackInfo, error)
	GetArtistInfo(ctx context.Context, address string) (*ArtistInfo, error)
	Watch(hash TxHash) <-chan TxUpdate
}

// Account is the part of a wallet session the contract boundary needs.
type Account interface {
	IsConnected() bool
	Account() string
}

// Caller binds a Client to the connected wallet and tracks in-flight
// transactions. Every mutating call requires a connected wallet.
type Caller struct {
	client  Client
	account Account

	mu      sync.Mutex
	pending map[TxHash]string
	last    TxUpdate
}

func NewCaller(client Client, account Account) *Caller {
	return &Caller{
		client:  client,
		account: account,
		pending: make(map[TxHash]string),
	}
}

func (c *Caller) Client() Client { return c.client }

func (c *Caller) opts(value *big.Int) (TxOpts, error) {
	if c.account == nil || !c.account.IsConnected() {
		return TxOpts{}, ErrWalletNotConnected
	}
	return TxOpts{From: c.account.Account(), Value: value}, nil
}

func (c *Caller) submitted(method string, hash TxHash, err error) (TxHash, error) {
	if err != nil {
		log.Printf("[contract] %s failed: %v", method, err)
		return "", err
	}
	c.mu.Lock()
	c.pending[hash] = method
	c.last = TxUpdate{Hash: hash, Method: method, Status: Pending}
	c.mu.Unlock()
	log.Printf("[contract] %s submitted %s", method, hash.Short())
	return hash, nil
}

func (c *Caller) RegisterArtist(ctx context.Context, name, bio string) (TxHash, error) {
	opts, err := c.opts(nil)
	if err != nil {
		return "", err
	}
	hash, err := c.client.RegisterArtist(ctx, opts, name, bio)
	return c.submitted("registerArtist", hash, err)
}

func (c *Caller) UploadTrack(ctx context.Context, name, artist, contentHash string, royaltyRate uint64) (TxHash, error) {
	opts, err := c.opts(nil)
	if err != nil {
		return "", err
	}
	hash, err := c.client.UploadTrack(ctx, opts, name, artist, contentHash, royaltyRate)
	return c.submitted("uploadTrack", hash, err)
}

// RecordStream pays value, a decimal ether amount, for one stream.
func (c *Caller) RecordStream(ctx context.Context, trackID, duration uint64, value string) (TxHash, error) {
	wei, err := ParseEther(value)
	if err != nil {
		return "", err
	}
	opts, err := c.opts(wei)
	if err != nil {
		return "", err
	}
	hash, err := c.client.RecordStream(ctx, opts, trackID, duration)
	return c.submitted("recordStream", hash, err)
}

func (c *Caller) Watch(hash TxHash) <-chan TxUpdate { return c.client.Watch(hash) }

// Observe records a completion notification. Terminal updates clear the
// transaction from the pending set.
func (c *Caller) Observe(u TxUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = u
	if u.Status.Terminal() {
		delete(c.pending, u.Hash)
	}
}

// Pending reports whether any submitted transaction is unresolved.
func (c *Caller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0
}

// Last is the most recent status seen for any transaction.
func (c *Caller) Last() TxUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
