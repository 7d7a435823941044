package port

import (
	"context"

	"tienda/internal/service/inventory/domain"
)

// ProductOracle 是商品服务的出站端口，回答“商品是否存在”。
// 实现必须把所有网络/HTTP 失败翻译成领域错误，不能把原始错误泄漏给应用层。
type ProductOracle interface {
	Validate(ctx context.Context, productID int64) domain.ValidationOutcome
}
