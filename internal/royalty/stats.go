package royalty

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/san-kum/sonicsecurum/internal/contract"
)

type Stat struct {
	Label string
	Value string
	Icon  string
}

func DefaultStats() []Stat {
	return []Stat{
		{Label: "Total Streams", Value: "24.8K", Icon: "↗"},
		{Label: "Active Tracks", Value: "12", Icon: "♫"},
		{Label: "Monthly Listeners", Value: "1.2K", Icon: "☺"},
		{Label: "Privacy Rate", Value: "100%", Icon: "⛨"},
	}
}

// HeroStats are the headline figures under the title.
func HeroStats() []Stat {
	return []Stat{
		{Label: "Protected Royalties", Value: "$2.4M+"},
		{Label: "Artists Protected", Value: "50K+"},
		{Label: "Encrypted", Value: "100%"},
	}
}

// TrackRow is one line of the catalogue listing.
type TrackRow struct {
	ID       uint64
	Name     string
	Artist   string
	Streams  string
	Earnings string
	Verified bool
}

// Catalogue reads ids in parallel and formats them for display.
func Catalogue(ctx context.Context, client contract.Client, ids []uint64) ([]TrackRow, error) {
	tracks, err := contract.FetchTracks(ctx, client, ids)
	if err != nil {
		return nil, err
	}
	rows := make([]TrackRow, len(tracks))
	for i, t := range tracks {
		rows[i] = TrackRow{
			ID:       t.ID,
			Name:     t.Name,
			Artist:   t.Artist,
			Streams:  humanize.Comma(int64(t.TotalStreams)),
			Earnings: contract.FormatEther(t.TotalEarnings) + " ETH",
			Verified: t.IsVerified,
		}
	}
	return rows, nil
}
