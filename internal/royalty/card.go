package royalty

import (
	"github.com/dustin/go-humanize"

	"github.com/san-kum/sonicsecurum/internal/contract"
)

// Card is one royalty summary. The encrypted amount is a display mask; the
// reveal toggle is presentation state only.
type Card struct {
	Title           string `yaml:"title"`
	EncryptedAmount string `yaml:"encrypted_amount"`
	ActualAmount    string `yaml:"actual_amount"`
	StreamCount     int64  `yaml:"stream_count"`
	Period          string `yaml:"period"`
	Unlocked        bool   `yaml:"unlocked"`

	revealed bool
}

func (c *Card) CanReveal() bool { return c.ActualAmount != "" }
func (c *Card) Revealed() bool  { return c.revealed }

// Toggle flips between masked and actual amount. Cards without an actual
// amount stay masked.
func (c *Card) Toggle() {
	if !c.CanReveal() {
		return
	}
	c.revealed = !c.revealed
}

func (c *Card) Amount() string {
	if c.revealed && c.ActualAmount != "" {
		return c.ActualAmount
	}
	return c.EncryptedAmount
}

func (c *Card) Status() string {
	if c.Unlocked {
		return "Ready to claim"
	}
	return "Accumulating"
}

func (c *Card) ClaimLabel() string {
	if c.Unlocked {
		return "Claimable"
	}
	return "Locked"
}

func (c *Card) Streams() string { return humanize.Comma(c.StreamCount) }

// DefaultCards are the mocked figures shown until real reads replace them.
func DefaultCards() []Card {
	return []Card{
		{Title: "This Month", EncryptedAmount: "████.██ ETH", ActualAmount: "0.847 ETH", StreamCount: 8420, Period: "30 days", Unlocked: true},
		{Title: "This Week", EncryptedAmount: "██.███ ETH", ActualAmount: "0.203 ETH", StreamCount: 2180, Period: "7 days"},
		{Title: "Today", EncryptedAmount: "█.███ ETH", StreamCount: 324, Period: "24 hours"},
		{Title: "All Time", EncryptedAmount: "██.███ ETH", ActualAmount: "12.45 ETH", StreamCount: 45670, Period: "lifetime", Unlocked: true},
	}
}

// FromArtist builds an all-time card from an on-chain artist read.
func FromArtist(info *contract.ArtistInfo) Card {
	amount := contract.FormatEther(info.TotalEarnings) + " ETH"
	return Card{
		Title:           "All Time",
		EncryptedAmount: Mask(amount),
		ActualAmount:    amount,
		StreamCount:     int64(info.TotalStreams),
		Period:          "lifetime",
		Unlocked:        info.TotalEarnings != nil && info.TotalEarnings.Sign() > 0,
	}
}

// Mask replaces every digit of amount with a block, keeping separators and
// the unit.
func Mask(amount string) string {
	out := []rune(amount)
	for i, r := range out {
		if r >= '0' && r <= '9' {
			out[i] = '█'
		}
	}
	return string(out)
}
