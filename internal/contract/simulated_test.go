package contract_test

import (
	"context"
	"math/big"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sonicsecurum/internal/contract"
)

const artistAddr = "0x742d35cc6634c0532925a3b844bc454e00004f3a"

func drain(ch <-chan contract.TxUpdate) []contract.TxUpdate {
	var out []contract.TxUpdate
	for u := range ch {
		out = append(out, u)
	}
	return out
}

func statuses(updates []contract.TxUpdate) []contract.TxStatus {
	out := make([]contract.TxStatus, len(updates))
	for i, u := range updates {
		out[i] = u.Status
	}
	return out
}

func final(sim *contract.Simulated, hash contract.TxHash) contract.TxUpdate {
	var updates []contract.TxUpdate
	Eventually(func() bool {
		updates = drain(sim.Watch(hash))
		return len(updates) > 0 && updates[len(updates)-1].Status.Terminal()
	}, time.Second, 5*time.Millisecond).Should(BeTrue())
	return updates[len(updates)-1]
}

type fakeAccount struct {
	connected bool
	addr      string
}

func (f fakeAccount) IsConnected() bool { return f.connected }
func (f fakeAccount) Account() string   { return f.addr }

var _ = Describe("Simulated", func() {
	var (
		ctx  context.Context
		sim  *contract.Simulated
		opts contract.TxOpts
	)

	BeforeEach(func() {
		ctx = context.Background()
		sim = contract.NewSimulated(contract.WithBlockTime(2 * time.Millisecond))
		opts = contract.TxOpts{From: artistAddr}
	})

	AfterEach(func() {
		sim.Close()
	})

	register := func() {
		hash, err := sim.RegisterArtist(ctx, opts, "Artist Name", "Artist Bio")
		Expect(err).NotTo(HaveOccurred())
		Expect(final(sim, hash).Status).To(Equal(contract.Confirmed))
	}

	upload := func() uint64 {
		hash, err := sim.UploadTrack(ctx, opts, "Track Name", "Artist Name", "ipfs-hash", 10)
		Expect(err).NotTo(HaveOccurred())
		u := final(sim, hash)
		Expect(u.Status).To(Equal(contract.Confirmed))
		return u.Result
	}

	Describe("transaction lifecycle", func() {
		It("reports pending, confirming and confirmed in order", func() {
			hash, err := sim.RegisterArtist(ctx, opts, "Artist Name", "Artist Bio")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(hash)).To(HavePrefix("0x"))

			updates := drain(sim.Watch(hash))
			Expect(statuses(updates)).To(Equal([]contract.TxStatus{
				contract.Pending, contract.Confirming, contract.Confirmed,
			}))
			Expect(updates[2].Block).To(BeNumerically(">", 0))
		})

		It("replays a finished transaction to late watchers", func() {
			hash, err := sim.RegisterArtist(ctx, opts, "Artist Name", "")
			Expect(err).NotTo(HaveOccurred())
			final(sim, hash)

			Expect(statuses(drain(sim.Watch(hash)))).To(ConsistOf(
				contract.Pending, contract.Confirming, contract.Confirmed,
			))
		})

		It("fails unknown transactions", func() {
			updates := drain(sim.Watch("0xdeadbeef"))
			Expect(updates).To(HaveLen(1))
			Expect(updates[0].Err).To(MatchError(contract.ErrUnknownTx))
		})

		It("fails unresolved transactions on close", func() {
			slow := contract.NewSimulated(contract.WithBlockTime(time.Hour))
			hash, err := slow.RegisterArtist(ctx, opts, "Artist Name", "")
			Expect(err).NotTo(HaveOccurred())
			ch := slow.Watch(hash)

			slow.Close()
			updates := drain(ch)
			last := updates[len(updates)-1]
			Expect(last.Status).To(Equal(contract.Failed))
			Expect(last.Err).To(MatchError(contract.ErrClosed))

			_, err = slow.RegisterArtist(ctx, opts, "Again", "")
			Expect(err).To(MatchError(contract.ErrClosed))
		})

		It("rejects calls without a sender", func() {
			_, err := sim.RegisterArtist(ctx, contract.TxOpts{}, "Artist Name", "")
			Expect(err).To(MatchError(contract.ErrWalletNotConnected))
		})

		It("rejects value on non-payable methods", func() {
			opts.Value = big.NewInt(1)
			_, err := sim.RegisterArtist(ctx, opts, "Artist Name", "")
			Expect(err).To(MatchError(contract.ErrNotPayable))
		})

		It("honours a canceled context", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := sim.RegisterArtist(canceled, opts, "Artist Name", "")
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("registerArtist", func() {
		It("stores the artist", func() {
			register()
			info, err := sim.GetArtistInfo(ctx, artistAddr)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Name).To(Equal("Artist Name"))
			Expect(info.Bio).To(Equal("Artist Bio"))
			Expect(info.TotalEarnings.Sign()).To(Equal(0))
		})

		It("reverts a duplicate registration", func() {
			register()
			hash, err := sim.RegisterArtist(ctx, opts, "Artist Name", "Artist Bio")
			Expect(err).NotTo(HaveOccurred())
			u := final(sim, hash)
			Expect(u.Status).To(Equal(contract.Failed))
			Expect(u.Err).To(MatchError(contract.ErrAlreadyRegistered))

			var txErr *contract.TxError
			Expect(u.Err).To(BeAssignableToTypeOf(txErr))
		})

		It("reports unknown artists on read", func() {
			_, err := sim.GetArtistInfo(ctx, "0x01")
			Expect(err).To(MatchError(contract.ErrUnknownArtist))
		})
	})

	Describe("uploadTrack", func() {
		It("requires a registered artist", func() {
			hash, err := sim.UploadTrack(ctx, opts, "Track Name", "Artist Name", "ipfs-hash", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(final(sim, hash).Err).To(MatchError(contract.ErrArtistNotRegistered))
		})

		It("assigns sequential track ids", func() {
			register()
			Expect(upload()).To(Equal(uint64(1)))
			Expect(upload()).To(Equal(uint64(2)))

			info, err := sim.GetTrackInfo(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Name).To(Equal("Track Name"))
			Expect(info.IPFSHash).To(Equal("ipfs-hash"))
			Expect(info.RoyaltyRate).To(Equal(uint8(10)))
			Expect(info.IsActive).To(BeTrue())
			Expect(info.Owner).To(Equal(artistAddr))
		})

		It("reverts a royalty rate above 100", func() {
			register()
			hash, err := sim.UploadTrack(ctx, opts, "Track Name", "Artist Name", "ipfs-hash", 101)
			Expect(err).NotTo(HaveOccurred())
			Expect(final(sim, hash).Err).To(MatchError(contract.ErrInvalidRoyaltyRate))
		})
	})

	Describe("recordStream", func() {
		It("credits the payment to the track and its owner", func() {
			register()
			id := upload()

			wei, err := contract.ParseEther("0.25")
			Expect(err).NotTo(HaveOccurred())
			pay := contract.TxOpts{From: "0x1111111111111111111111111111111111111111", Value: wei}

			for i := 0; i < 2; i++ {
				hash, err := sim.RecordStream(ctx, pay, id, 180)
				Expect(err).NotTo(HaveOccurred())
				Expect(final(sim, hash).Status).To(Equal(contract.Confirmed))
			}

			track, err := sim.GetTrackInfo(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(track.TotalStreams).To(Equal(uint64(2)))
			Expect(contract.FormatEther(track.TotalEarnings)).To(Equal("0.5"))

			artist, err := sim.GetArtistInfo(ctx, artistAddr)
			Expect(err).NotTo(HaveOccurred())
			Expect(artist.TotalStreams).To(Equal(uint64(2)))
			Expect(contract.FormatEther(artist.TotalEarnings)).To(Equal("0.5"))
		})

		It("reverts without payment", func() {
			register()
			id := upload()
			hash, err := sim.RecordStream(ctx, opts, id, 180)
			Expect(err).NotTo(HaveOccurred())
			Expect(final(sim, hash).Err).To(MatchError(contract.ErrZeroPayment))
		})

		It("reverts for unknown tracks", func() {
			opts.Value = big.NewInt(1)
			hash, err := sim.RecordStream(ctx, opts, 99, 180)
			Expect(err).NotTo(HaveOccurred())
			Expect(final(sim, hash).Err).To(MatchError(contract.ErrUnknownTrack))
		})
	})

	Describe("reads", func() {
		It("returns copies that do not alias chain state", func() {
			demo := contract.NewSimulated(contract.WithDemoCatalog(5, 1))
			defer demo.Close()

			info, err := demo.GetTrackInfo(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			before := new(big.Int).Set(info.TotalEarnings)
			info.TotalEarnings.SetInt64(-1)

			again, err := demo.GetTrackInfo(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.TotalEarnings.Cmp(before)).To(Equal(0))
		})

		It("fetches tracks in parallel preserving order", func() {
			demo := contract.NewSimulated(contract.WithDemoCatalog(5, 1))
			defer demo.Close()

			tracks, err := contract.FetchTracks(ctx, demo, []uint64{3, 1, 5, 2, 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(tracks).To(HaveLen(5))
			Expect(tracks[0].Name).To(Equal("Track 3"))
			Expect(tracks[1].Name).To(Equal("Track 1"))
			Expect(tracks[4].Name).To(Equal("Track 4"))
		})

		It("fails the batch when one track is missing", func() {
			_, err := contract.FetchTracks(ctx, sim, []uint64{1})
			Expect(err).To(MatchError(contract.ErrUnknownTrack))
		})
	})
})

var _ = Describe("Caller", func() {
	var sim *contract.Simulated

	BeforeEach(func() {
		sim = contract.NewSimulated(contract.WithBlockTime(2 * time.Millisecond))
	})

	AfterEach(func() {
		sim.Close()
	})

	It("refuses mutating calls while disconnected", func() {
		c := contract.NewCaller(sim, fakeAccount{})
		_, err := c.RegisterArtist(context.Background(), "Artist Name", "Artist Bio")
		Expect(err).To(MatchError(contract.ErrWalletNotConnected))
		_, err = c.UploadTrack(context.Background(), "Track Name", "Artist Name", "ipfs-hash", 10)
		Expect(err).To(MatchError(contract.ErrWalletNotConnected))
		_, err = c.RecordStream(context.Background(), 1, 60, "0.01")
		Expect(err).To(MatchError(contract.ErrWalletNotConnected))
		Expect(c.Pending()).To(BeFalse())
	})

	It("tracks pending transactions until a terminal update", func() {
		c := contract.NewCaller(sim, fakeAccount{connected: true, addr: artistAddr})
		hash, err := c.RegisterArtist(context.Background(), "Artist Name", "Artist Bio")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Pending()).To(BeTrue())
		Expect(c.Last().Status).To(Equal(contract.Pending))

		for u := range c.Watch(hash) {
			c.Observe(u)
		}
		Expect(c.Pending()).To(BeFalse())
		Expect(c.Last().Status).To(Equal(contract.Confirmed))
	})

	It("rejects malformed stream payments before submitting", func() {
		c := contract.NewCaller(sim, fakeAccount{connected: true, addr: artistAddr})
		_, err := c.RecordStream(context.Background(), 1, 60, "not-ether")
		Expect(err).To(MatchError(contract.ErrInvalidArgument))
		Expect(c.Pending()).To(BeFalse())
	})
})
