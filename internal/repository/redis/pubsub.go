package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// FloorPlanPubSub tells every deskgo instance that a floor's plan was saved.
type FloorPlanPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewFloorPlanPubSub(rdb *redis.Client) *FloorPlanPubSub {
	return &FloorPlanPubSub{
		rdb:     rdb,
		channel: ChannelFloorPlanChanged(),
	}
}

// FloorPlanChanged is the message published after a save. Origin is the
// workspace that saved, which already has the new plan.
type FloorPlanChanged struct {
	Type     string `json:"type"`
	Building string `json:"building"`
	Office   string `json:"office"`
	Floor    string `json:"floor"`
	Origin   string `json:"origin"`
	TsUnix   int64  `json:"ts_unix"`
}

func (p *FloorPlanPubSub) PublishFloorPlanChanged(ctx context.Context, k domain.FloorKey, origin string) error {
	msg := FloorPlanChanged{
		Type:     "floorplan_changed",
		Building: k.Building,
		Office:   k.Office,
		Floor:    k.Floor,
		Origin:   origin,
		TsUnix:   time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe calls handler for every change until ctx is done.
func (p *FloorPlanPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, msg FloorPlanChanged)) error {
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
			var msg FloorPlanChanged
			if err := json.Unmarshal([]byte(m.Payload), &msg); err == nil && msg.Floor != "" {
				handler(ctx, msg)
			}
		}
	}
}
