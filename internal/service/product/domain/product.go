// internal/service/product/domain/product.go
package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product 是目录中的一件商品。
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
}

// ProductRepository 是商品的持久化接口。
type ProductRepository interface {
	// Save 插入新商品并回填 ID。
	Save(ctx context.Context, p *Product) error
	// FindByID 查询不到时返回 ErrProductNotFound。
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}

// NotFoundError 带上被查询的 ID，errors.Is 与 ErrProductNotFound 匹配。
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Producto no encontrado con id %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

var ErrProductNotFound = &NotFoundError{}

func NewProductNotFound(id int64) error {
	return &NotFoundError{ID: id}
}
