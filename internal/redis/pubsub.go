package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// JourneysPubSub fans out journey-changed notifications so other instances
// can drop their cached seat maps after a booking commits.
type JourneysPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewJourneysPubSub(rdb *redis.Client) *JourneysPubSub {
	return &JourneysPubSub{
		rdb:     rdb,
		channel: ChannelJourneysChanged(),
	}
}

type journeyChangedMsg struct {
	Type      string `json:"type"`
	JourneyID int64  `json:"journey_id"`
	TsUnix    int64  `json:"ts_unix"`
}

func (p *JourneysPubSub) PublishJourneyChanged(ctx context.Context, journeyID int64) error {
	msg := journeyChangedMsg{
		Type:      "journey_changed",
		JourneyID: journeyID,
		TsUnix:    time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *JourneysPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, journeyID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev journeyChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.JourneyID != 0 {
				handler(ctx, ev.JourneyID)
			}
		}
	}
}
