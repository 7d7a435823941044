package infrastructure

import (
	"github.com/shopspring/decimal"

	"tienda/internal/service/product/domain"
)

func toDomainProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
	}
}

func fromDomainProduct(p *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// 缓存中的价格以字符串保存，避免浮点误差
func (c cachedProduct) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(c.Price)
	if err != nil {
		return nil, err
	}
	return &domain.Product{ID: c.ID, Name: c.Name, Description: c.Description, Price: price}, nil
}
