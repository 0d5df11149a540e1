package market

import (
	"context"
	"time"

	kafkawrapper "github.com/joripage/stockmarket-dev/pkg/kafka_wrapper"
)

// PriceTick is the message published to the market-data topic for every
// clearing-price update.
type PriceTick struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}

// KafkaPriceFeed publishes clearing prices as a market-data feed.
type KafkaPriceFeed struct {
	producer *kafkawrapper.Producer
	topic    string
}

func NewKafkaPriceFeed(producer *kafkawrapper.Producer, topic string) *KafkaPriceFeed {
	return &KafkaPriceFeed{
		producer: producer,
		topic:    topic,
	}
}

func (f *KafkaPriceFeed) SetPrice(ctx context.Context, symbol string, price float64) error {
	return f.producer.PublishJSON(ctx, f.topic, symbol, &PriceTick{
		Symbol: symbol,
		Price:  price,
		Time:   time.Now(),
	})
}
