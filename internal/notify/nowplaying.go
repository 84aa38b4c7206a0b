package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavesink/internal/playback"
)

const nowPlayingTimeout = 5 * time.Second

// NowPlaying shows a notification whenever playback moves to another track.
// Each notification replaces the previous one.
type NowPlaying struct {
	notifier Notifier
	icon     func(index int) string
	log      zerolog.Logger

	lastIndex int
	lastID    uint32
}

// NewNowPlaying creates a NowPlaying. icon may be nil.
func NewNowPlaying(n Notifier, icon func(index int) string, log zerolog.Logger) *NowPlaying {
	if icon == nil {
		icon = func(int) string { return "" }
	}
	return &NowPlaying{
		notifier:  n,
		icon:      icon,
		log:       log.With().Str("component", "notify").Logger(),
		lastIndex: -1,
	}
}

// Run consumes state changes until ctx is done or the subscription ends.
func (p *NowPlaying) Run(ctx context.Context, sub *playback.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			return nil
		case change := <-sub.StateChanged:
			p.handle(change)
		}
	}
}

func (p *NowPlaying) handle(c playback.StateChange) {
	if c.State != playback.StatePlaying || c.Index < 0 || c.Index == p.lastIndex {
		return
	}
	p.lastIndex = c.Index

	id, err := p.notifier.Notify(Notification{
		Summary:  c.Name,
		Body:     fmt.Sprintf("Track %d", c.Index+1),
		Icon:     p.icon(c.Index),
		Timeout:  nowPlayingTimeout,
		Replaces: p.lastID,
		Urgency:  UrgencyLow,
	})
	if err != nil {
		p.log.Debug().Err(err).Msg("now playing notification")
		return
	}
	p.lastID = id
}
