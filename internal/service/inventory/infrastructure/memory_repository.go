package infrastructure

import (
	"context"
	"sync"

	"tienda/internal/service/inventory/domain"
)

// MemoryStockRepository 是内存版仓储，用于本地运行和测试。
// 与数据库不同，它不强制 producto_id 唯一：重复调用 Create 会得到多条记录，
// FindByProductID / UpdateByProductID 总是作用在最早插入的那一条上。
type MemoryStockRepository struct {
	mu      sync.Mutex
	records []*domain.StockRecord
	nextID  int64

	reads  int
	writes int
}

func NewMemoryStockRepository(initial ...domain.StockRecord) *MemoryStockRepository {
	r := &MemoryStockRepository{nextID: 1}
	for _, rec := range initial {
		rec := rec
		if rec.ID == 0 {
			rec.ID = r.nextID
		}
		if rec.ID >= r.nextID {
			r.nextID = rec.ID + 1
		}
		r.records = append(r.records, &rec)
	}
	return r
}

func (r *MemoryStockRepository) Create(_ context.Context, record *domain.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes++
	record.ID = r.nextID
	r.nextID++
	stored := *record
	r.records = append(r.records, &stored)
	return nil
}

func (r *MemoryStockRepository) FindByProductID(_ context.Context, productID int64) (*domain.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reads++
	rec := r.findLocked(productID)
	if rec == nil {
		return nil, domain.ErrStockRecordNotFound
	}
	out := *rec
	return &out, nil
}

// UpdateByProductID 在互斥锁内完成读-改-写，对应数据库实现中的行锁事务。
func (r *MemoryStockRepository) UpdateByProductID(_ context.Context, productID int64, mutate func(record *domain.StockRecord) error) (*domain.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reads++
	rec := r.findLocked(productID)
	if rec == nil {
		return nil, domain.ErrStockRecordNotFound
	}

	working := *rec
	if err := mutate(&working); err != nil {
		return nil, err
	}
	r.writes++
	*rec = working
	out := working
	return &out, nil
}

func (r *MemoryStockRepository) findLocked(productID int64) *domain.StockRecord {
	for _, rec := range r.records {
		if rec.ProductID == productID {
			return rec
		}
	}
	return nil
}

// All 返回所有记录的快照。
func (r *MemoryStockRepository) All() []domain.StockRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.StockRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

// Reads 和 Writes 返回访问次数，测试用来断言“未触碰存储”。
func (r *MemoryStockRepository) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func (r *MemoryStockRepository) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
