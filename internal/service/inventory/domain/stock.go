// internal/service/inventory/domain/stock.go
package domain

import (
	"context"
	"time"
)

// StockRecord 是一个商品当前的在库数量。
type StockRecord struct {
	ID        int64 // 首次持久化后由存储分配
	ProductID int64
	Quantity  int
}

// NewStockRecord 用于“设置库存”，不校验数量的正负。
func NewStockRecord(productID int64, quantity int) *StockRecord {
	return &StockRecord{ProductID: productID, Quantity: quantity}
}

// Debit 扣减库存。数量不足时返回 ErrInsufficientStock 且不修改记录。
// 等于当前库存是允许的，扣减后为 0。
func (s *StockRecord) Debit(amount int) error {
	if s.Quantity < amount {
		return NewInsufficientStock()
	}
	s.Quantity -= amount
	return nil
}

// StockRecordDTO 是返回给传输层的结果。
type StockRecordDTO struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"productoId"`
	Quantity  int   `json:"cantidad"`
}

// ToDTO 转换为传输层使用的 DTO。
func (s *StockRecord) ToDTO() *StockRecordDTO {
	return &StockRecordDTO{ID: s.ID, ProductID: s.ProductID, Quantity: s.Quantity}
}

// StockRepository 是库存记录的持久化接口。
type StockRepository interface {
	// Create 总是插入一条新记录，并回填 ID。
	Create(ctx context.Context, record *StockRecord) error

	// FindByProductID 查询不到时返回 ErrStockRecordNotFound。
	FindByProductID(ctx context.Context, productID int64) (*StockRecord, error)

	// UpdateByProductID 在同一个事务里完成“加锁读取 - mutate - 写回”。
	// mutate 返回错误时不写回，并原样返回该错误。
	UpdateByProductID(ctx context.Context, productID int64, mutate func(record *StockRecord) error) (*StockRecord, error)
}

// Operation 标识触发库存变化的操作。
type Operation string

const (
	OperationSet      Operation = "set"
	OperationPurchase Operation = "purchase"
)

// StockChanged 是库存变更成功后发出的事件。
type StockChanged struct {
	EventID       string    `json:"eventId"`
	Operation     Operation `json:"operation"`
	ProductID     int64     `json:"productId"`
	StockRecordID int64     `json:"stockRecordId"`
	Quantity      int       `json:"quantity"`
	Delta         int       `json:"delta"`
	OccurredAt    time.Time `json:"occurredAt"`
}
