package application

import (
	"github.com/shopspring/decimal"

	"tienda/internal/service/product/domain"
)

func init() {
	// precio 以 JSON 数字输出，和原有客户端保持一致
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductDTO 是创建请求和查询响应共用的结构。
type ProductDTO struct {
	ID          int64           `json:"id,omitempty"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
}

func toDTO(p *domain.Product) *ProductDTO {
	return &ProductDTO{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
}
