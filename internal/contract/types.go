package contract

import (
	"math/big"
	"time"
)

const ZeroAddress = "0x0000000000000000000000000000000000000000"

type TxHash string

// Short abbreviates the hash for status lines.
func (h TxHash) Short() string {
	s := string(h)
	if len(s) <= 12 {
		return s
	}
	return s[:8] + "…" + s[len(s)-4:]
}

type TxStatus int

const (
	Pending TxStatus = iota
	Confirming
	Confirmed
	Failed
)

func (s TxStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirming:
		return "confirming"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s TxStatus) Terminal() bool { return s == Confirmed || s == Failed }

// TxUpdate is one completion notification for a submitted transaction.
// Result carries the method's uint256 return value once confirmed.
type TxUpdate struct {
	Hash   TxHash
	Method string
	Status TxStatus
	Block  uint64
	Result uint64
	Err    error
}

// TxOpts are the per-call transaction parameters.
type TxOpts struct {
	From  string
	Value *big.Int
}

type TrackInfo struct {
	ID            uint64
	Name          string
	Artist        string
	IPFSHash      string
	TotalStreams  uint64
	TotalEarnings *big.Int
	RoyaltyRate   uint8
	IsActive      bool
	IsVerified    bool
	Owner         string
	CreatedAt     time.Time
}

type ArtistInfo struct {
	Address       string
	Name          string
	Bio           string
	TotalEarnings *big.Int
	TotalStreams  uint64
	Reputation    uint8
	IsVerified    bool
	JoinedAt      time.Time
}
