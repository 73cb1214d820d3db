package contract

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const fetchConcurrency = 4

// FetchTracks reads the given tracks in parallel. Results keep the order of
// ids; the first failed read cancels the rest.
func FetchTracks(ctx context.Context, client Client, ids []uint64) ([]*TrackInfo, error) {
	out := make([]*TrackInfo, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			info, err := client.GetTrackInfo(ctx, id)
			if err != nil {
				return err
			}
			out[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
