package exchange

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

// NatsSettlementFeed publishes settlement events to a JetStream subject so
// out-of-process consumers (see cmd/worker) can persist or fan them out.
type NatsSettlementFeed struct {
	js      nats.JetStreamContext
	subject string
}

func NewNatsSettlementFeed(js nats.JetStreamContext, stream, subject string) (*NatsSettlementFeed, error) {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:     stream,
		Subjects: []string{subject},
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
	}
	return &NatsSettlementFeed{js: js, subject: subject}, nil
}

func (f *NatsSettlementFeed) Publish(ctx context.Context, ev *model.SettlementEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = f.js.Publish(f.subject, data, nats.MsgId(ev.EventID))
	return err
}
