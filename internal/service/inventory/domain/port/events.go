package port

import (
	"context"

	"tienda/internal/service/inventory/domain"
)

// StockEventPublisher 是库存变更事件的出站端口。
type StockEventPublisher interface {
	PublishStockChanged(ctx context.Context, event domain.StockChanged) error
}
