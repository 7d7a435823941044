package infrastructure

import "github.com/shopspring/decimal"

// ProductModel 对应 productos 表
type ProductModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"column:nombre;size:255"`
	Description string          `gorm:"column:descripcion;size:1024"`
	Price       decimal.Decimal `gorm:"column:precio;type:decimal(19,2)"`
}

func (ProductModel) TableName() string {
	return "productos"
}
