package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

type memRepo struct {
	created []*model.SettlementEvent
}

func (r *memRepo) Create(ctx context.Context, record *model.SettlementEvent) (*model.SettlementEvent, error) {
	r.created = append(r.created, record)
	return record, nil
}

func (r *memRepo) BulkCreate(ctx context.Context, records []*model.SettlementEvent) ([]*model.SettlementEvent, error) {
	r.created = append(r.created, records...)
	return records, nil
}

func (r *memRepo) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.SettlementEvent, error) {
	return nil, nil
}

type failingFetcher struct {
	calls int
}

func (f *failingFetcher) Fetch(batch int, opts ...nats.PullOpt) ([]*nats.Msg, error) {
	f.calls++
	return nil, errors.New("nats: connection closed")
}

type scriptedFetcher struct {
	batches [][]*nats.Msg
}

func (f *scriptedFetcher) Fetch(batch int, opts ...nats.PullOpt) ([]*nats.Msg, error) {
	if len(f.batches) == 0 {
		return nil, context.Canceled
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

func TestConsumeBacksOffOnFetchError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	f := &failingFetcher{}
	w := &Worker{settlementEvent: &memRepo{}}

	err := w.consume(ctx, f)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	// the first retry delay is already longer than the test window; an
	// unthrottled loop would have spun thousands of times
	if f.calls > 3 {
		t.Errorf("expected backoff between fetches, got %d calls", f.calls)
	}
}

func TestConsumePersistsEvents(t *testing.T) {
	ev := model.NewSettlementEvent(1, "alice", "ABC", model.SideBuy, 10, 40.0, time.Now())
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}

	f := &scriptedFetcher{
		batches: [][]*nats.Msg{{
			{Data: data},
			{Data: []byte("not json")},
		}},
	}
	repo := &memRepo{}
	w := &Worker{settlementEvent: repo}

	if err := w.consume(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(repo.created))
	}
	if repo.created[0].EventID != ev.EventID {
		t.Errorf("expected event %s persisted, got %s", ev.EventID, repo.created[0].EventID)
	}
}
