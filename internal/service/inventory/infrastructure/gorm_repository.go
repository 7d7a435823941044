package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/pkg/database"
	"tienda/internal/service/inventory/domain"
)

// GormStockRepository 是 StockRepository 的 GORM 实现
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository 创建一个新的 GORM 仓储实例
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// AutoMigrate 创建/更新 inventarios 表
func (r *GormStockRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&StockRecordModel{})
}

// Create 总是执行 INSERT。同一 producto_id 的第二次插入会被唯一索引拒绝。
func (r *GormStockRepository) Create(ctx context.Context, record *domain.StockRecord) error {
	model := fromDomainStockRecord(record)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return errors.Wrapf(err, "stock record for product %d already exists", record.ProductID)
		}
		return errors.Wrap(err, "insert stock record")
	}
	record.ID = model.ID
	return nil
}

// FindByProductID 使用 GORM 按商品 ID 查找库存记录
func (r *GormStockRepository) FindByProductID(ctx context.Context, productID int64) (*domain.StockRecord, error) {
	var model StockRecordModel
	err := r.db.WithContext(ctx).Where("producto_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStockRecordNotFound
		}
		return nil, errors.Wrap(err, "find stock record")
	}
	return toDomainStockRecord(&model), nil
}

// UpdateByProductID 在事务内 SELECT ... FOR UPDATE，保证“检查 - 扣减 - 写回”对同一行串行执行。
func (r *GormStockRepository) UpdateByProductID(ctx context.Context, productID int64, mutate func(record *domain.StockRecord) error) (*domain.StockRecord, error) {
	var updated *domain.StockRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model StockRecordModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("producto_id = ?", productID).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrStockRecordNotFound
			}
			return errors.Wrap(err, "lock stock record")
		}

		record := toDomainStockRecord(&model)
		if err := mutate(record); err != nil {
			return err
		}

		// 只更新数量字段，按主键定位同一行
		if err := tx.Model(&StockRecordModel{}).
			Where("id = ?", model.ID).
			Update("cantidad", record.Quantity).Error; err != nil {
			return errors.Wrap(err, "update stock record")
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
