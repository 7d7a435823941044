package infrastructure

// StockRecordModel 对应数据库中的 inventarios 表
type StockRecordModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"column:producto_id;not null;uniqueIndex"`
	Quantity  int   `gorm:"column:cantidad;not null"`
}

// TableName 指定 GORM 应该使用的表名
func (StockRecordModel) TableName() string {
	return "inventarios"
}
