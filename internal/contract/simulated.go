package contract

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const DefaultBlockTime = 1500 * time.Millisecond

type artistRecord struct {
	info ArtistInfo
}

type trackRecord struct {
	info TrackInfo
}

type txRecord struct {
	updates []TxUpdate
	subs    []chan TxUpdate
}

// Simulated is an in-memory stand-in for the deployed contract. State lives
// only as long as the value; nothing is persisted.
type Simulated struct {
	address   string
	abi       *ABI
	blockTime time.Duration
	now       func() time.Time

	mu        sync.Mutex
	block     uint64
	nonce     uint64
	artists   map[string]*artistRecord
	tracks    map[uint64]*trackRecord
	nextTrack uint64
	txs       map[TxHash]*txRecord
	closed    bool

	stop chan struct{}
	wg   sync.WaitGroup
}

type SimOption func(*Simulated)

func WithAddress(addr string) SimOption {
	return func(s *Simulated) {
		if addr != "" {
			s.address = strings.ToLower(addr)
		}
	}
}

func WithBlockTime(d time.Duration) SimOption {
	return func(s *Simulated) {
		if d >= 0 {
			s.blockTime = d
		}
	}
}

func WithSimClock(now func() time.Time) SimOption {
	return func(s *Simulated) { s.now = now }
}

// WithDemoCatalog preloads count tracks owned by a demo artist, mirroring
// the catalogue the dashboard lists before any upload.
func WithDemoCatalog(count int, seed uint64) SimOption {
	return func(s *Simulated) {
		rng := rand.New(rand.NewPCG(seed, seed+1))
		owner := "0x00000000000000000000000000000000000a7157"
		joined := s.now()
		s.artists[owner] = &artistRecord{info: ArtistInfo{
			Address:       owner,
			Name:          "Demo Artist",
			Bio:           "Preloaded catalogue",
			TotalEarnings: new(big.Int),
			IsVerified:    true,
			JoinedAt:      joined,
		}}
		for i := 1; i <= count; i++ {
			streams := uint64(rng.IntN(1000))
			earnings := new(big.Int).Mul(big.NewInt(int64(rng.IntN(100))), big.NewInt(1e15))
			s.nextTrack++
			s.tracks[s.nextTrack] = &trackRecord{info: TrackInfo{
				ID:            s.nextTrack,
				Name:          fmt.Sprintf("Track %d", i),
				Artist:        fmt.Sprintf("Artist %d", i),
				IPFSHash:      fmt.Sprintf("ipfs-demo-%d", i),
				TotalStreams:  streams,
				TotalEarnings: earnings,
				RoyaltyRate:   10,
				IsActive:      true,
				IsVerified:    rng.IntN(2) == 1,
				Owner:         owner,
				CreatedAt:     joined,
			}}
			a := s.artists[owner].info
			a.TotalStreams += streams
			a.TotalEarnings = new(big.Int).Add(a.TotalEarnings, earnings)
			s.artists[owner].info = a
		}
	}
}

func NewSimulated(opts ...SimOption) *Simulated {
	s := &Simulated{
		address:   ZeroAddress,
		abi:       DefaultABI(),
		blockTime: DefaultBlockTime,
		now:       time.Now,
		artists:   make(map[string]*artistRecord),
		tracks:    make(map[uint64]*trackRecord),
		txs:       make(map[TxHash]*txRecord),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulated) Address() string { return s.address }
func (s *Simulated) ABI() *ABI       { return s.abi }

// Close fails every unresolved transaction and waits for the miners to exit.
func (s *Simulated) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.stop)
	s.mu.Unlock()
	s.wg.Wait()
}

type execFunc func() (uint64, error)

func (s *Simulated) submit(ctx context.Context, method string, args int, opts TxOpts, exec execFunc) (TxHash, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	withValue := opts.Value != nil && opts.Value.Sign() != 0
	if _, err := s.abi.CheckCall(method, args, withValue); err != nil {
		return "", err
	}
	if opts.From == "" {
		return "", ErrWalletNotConnected
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	s.nonce++
	hash := s.hashFor(method, opts.From, s.nonce)
	s.txs[hash] = &txRecord{}
	s.publishLocked(TxUpdate{Hash: hash, Method: method, Status: Pending})
	s.wg.Add(1)
	s.mu.Unlock()

	go s.mine(hash, method, exec)
	return hash, nil
}

func (s *Simulated) hashFor(method, from string, nonce uint64) TxHash {
	var buf []byte
	buf = append(buf, s.address...)
	buf = append(buf, method...)
	buf = append(buf, from...)
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return TxHash("0x" + hex.EncodeToString(crypto.Sha256d(buf)))
}

// mine walks a transaction through confirming to its terminal state.
func (s *Simulated) mine(hash TxHash, method string, exec execFunc) {
	defer s.wg.Done()

	half := s.blockTime / 2
	if !s.wait(half) {
		s.fail(hash, method, ErrClosed)
		return
	}
	s.mu.Lock()
	s.publishLocked(TxUpdate{Hash: hash, Method: method, Status: Confirming})
	s.mu.Unlock()

	if !s.wait(s.blockTime - half) {
		s.fail(hash, method, ErrClosed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.block++
	result, err := exec()
	if err != nil {
		log.Printf("[contract] %s %s reverted: %v", method, hash.Short(), err)
		s.publishLocked(TxUpdate{Hash: hash, Method: method, Status: Failed, Block: s.block,
			Err: &TxError{Hash: hash, Method: method, Wrapped: err}})
		return
	}
	s.publishLocked(TxUpdate{Hash: hash, Method: method, Status: Confirmed, Block: s.block, Result: result})
}

func (s *Simulated) wait(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-s.stop:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.stop:
		return false
	case <-t.C:
		return true
	}
}

func (s *Simulated) fail(hash TxHash, method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(TxUpdate{Hash: hash, Method: method, Status: Failed,
		Err: &TxError{Hash: hash, Method: method, Wrapped: err}})
}

func (s *Simulated) publishLocked(u TxUpdate) {
	rec, ok := s.txs[u.Hash]
	if !ok {
		return
	}
	rec.updates = append(rec.updates, u)
	for _, ch := range rec.subs {
		ch <- u
		if u.Status.Terminal() {
			close(ch)
		}
	}
	if u.Status.Terminal() {
		rec.subs = nil
	}
}

// Watch replays every update seen so far for hash and then follows it until
// a terminal status, after which the channel is closed.
func (s *Simulated) Watch(hash TxHash) <-chan TxUpdate {
	ch := make(chan TxUpdate, 4)

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.txs[hash]
	if !ok {
		ch <- TxUpdate{Hash: hash, Status: Failed, Err: ErrUnknownTx}
		close(ch)
		return ch
	}
	terminal := false
	for _, u := range rec.updates {
		ch <- u
		terminal = terminal || u.Status.Terminal()
	}
	if terminal {
		close(ch)
		return ch
	}
	rec.subs = append(rec.subs, ch)
	return ch
}

func (s *Simulated) RegisterArtist(ctx context.Context, opts TxOpts, name, bio string) (TxHash, error) {
	from := strings.ToLower(opts.From)
	return s.submit(ctx, "registerArtist", 2, opts, func() (uint64, error) {
		if strings.TrimSpace(name) == "" {
			return 0, fmt.Errorf("%w: artist name is empty", ErrInvalidArgument)
		}
		if _, ok := s.artists[from]; ok {
			return 0, ErrAlreadyRegistered
		}
		s.artists[from] = &artistRecord{info: ArtistInfo{
			Address:       from,
			Name:          name,
			Bio:           bio,
			TotalEarnings: new(big.Int),
			JoinedAt:      s.now(),
		}}
		return uint64(len(s.artists)), nil
	})
}

func (s *Simulated) UploadTrack(ctx context.Context, opts TxOpts, name, artist, contentHash string, royaltyRate uint64) (TxHash, error) {
	from := strings.ToLower(opts.From)
	return s.submit(ctx, "uploadTrack", 4, opts, func() (uint64, error) {
		if _, ok := s.artists[from]; !ok {
			return 0, ErrArtistNotRegistered
		}
		if strings.TrimSpace(name) == "" || contentHash == "" {
			return 0, fmt.Errorf("%w: track name and content hash are required", ErrInvalidArgument)
		}
		if royaltyRate > 100 {
			return 0, ErrInvalidRoyaltyRate
		}
		s.nextTrack++
		s.tracks[s.nextTrack] = &trackRecord{info: TrackInfo{
			ID:            s.nextTrack,
			Name:          name,
			Artist:        artist,
			IPFSHash:      contentHash,
			TotalEarnings: new(big.Int),
			RoyaltyRate:   uint8(royaltyRate),
			IsActive:      true,
			Owner:         from,
			CreatedAt:     s.now(),
		}}
		return s.nextTrack, nil
	})
}

// RecordStream credits the payment to the track and its owner unchanged.
func (s *Simulated) RecordStream(ctx context.Context, opts TxOpts, trackID, duration uint64) (TxHash, error) {
	var value *big.Int
	if opts.Value != nil {
		value = new(big.Int).Set(opts.Value)
	}
	return s.submit(ctx, "recordStream", 2, opts, func() (uint64, error) {
		t, ok := s.tracks[trackID]
		if !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
		}
		if !t.info.IsActive {
			return 0, ErrInactiveTrack
		}
		if value == nil || value.Sign() <= 0 {
			return 0, ErrZeroPayment
		}
		if duration == 0 {
			return 0, fmt.Errorf("%w: stream duration is zero", ErrInvalidArgument)
		}
		t.info.TotalStreams++
		t.info.TotalEarnings = new(big.Int).Add(t.info.TotalEarnings, value)
		if a, ok := s.artists[t.info.Owner]; ok {
			a.info.TotalStreams++
			a.info.TotalEarnings = new(big.Int).Add(a.info.TotalEarnings, value)
		}
		return t.info.TotalStreams, nil
	})
}

func (s *Simulated) GetTrackInfo(ctx context.Context, trackID uint64) (*TrackInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrack, trackID)
	}
	info := t.info
	info.TotalEarnings = new(big.Int).Set(t.info.TotalEarnings)
	return &info, nil
}

func (s *Simulated) GetArtistInfo(ctx context.Context, address string) (*ArtistInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artists[strings.ToLower(address)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtist, address)
	}
	info := a.info
	info.TotalEarnings = new(big.Int).Set(a.info.TotalEarnings)
	return &info, nil
}
