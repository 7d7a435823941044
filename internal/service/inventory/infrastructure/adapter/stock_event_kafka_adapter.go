package adapter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"tienda/internal/pkg/mq"
	"tienda/internal/service/inventory/domain"
)

// StockEventKafkaAdapter 实现了 port.StockEventPublisher，按 productId 作为消息 key 保证同一商品有序。
type StockEventKafkaAdapter struct {
	writer mq.MessageWriter
}

func NewStockEventKafkaAdapter(writer mq.MessageWriter) *StockEventKafkaAdapter {
	return &StockEventKafkaAdapter{writer: writer}
}

func (a *StockEventKafkaAdapter) PublishStockChanged(ctx context.Context, event domain.StockChanged) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal stock changed event")
	}
	key := []byte(strconv.FormatInt(event.ProductID, 10))
	return mq.ProduceMessage(ctx, a.writer, key, payload)
}

// NoopStockEventPublisher 在未配置 Kafka 时使用。
type NoopStockEventPublisher struct{}

func (NoopStockEventPublisher) PublishStockChanged(context.Context, domain.StockChanged) error {
	return nil
}
