package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
	"github.com/joripage/stockmarket-dev/pkg/exchange/repo"
)

// Worker drains the settlement feed into the database.
type Worker struct {
	settlementEvent repo.ISettlementEvent
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		settlementEvent: repo.SettlementEvent(),
	}
}

// fetcher is the pull-consumer slice of nats.Subscription the loop needs.
type fetcher interface {
	Fetch(batch int, opts ...nats.PullOpt) ([]*nats.Msg, error)
}

func (w *Worker) StartConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	// Create durable consumer
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	return w.consume(ctx, cons)
}

func (w *Worker) consume(ctx context.Context, cons fetcher) error {
	boff := backoff.NewExponentialBackOff()
	boff.MaxElapsedTime = 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := cons.Fetch(10, nats.Context(ctx))
		if err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				return nil
			}
			log.Println("fetch err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(boff.NextBackOff()):
			}
			continue
		}
		boff.Reset()

		for _, msg := range msgs {
			var ev model.SettlementEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				log.Println("unmarshal err", err)
				_ = msg.Ack()
				continue
			}
			if err := w.handleEvent(ctx, &ev); err != nil {
				log.Println("handleEvent err", err)
				continue
			}
			_ = msg.Ack()
		}
	}
}

func (w *Worker) handleEvent(ctx context.Context, ev *model.SettlementEvent) error {
	_, err := w.settlementEvent.Create(ctx, ev)
	return err
}
