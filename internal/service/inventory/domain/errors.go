// internal/service/inventory/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Kind 是库存服务对外暴露的封闭错误分类，传输层只根据 Kind 决定状态码。
type Kind int

const (
	KindUnknown Kind = iota
	// KindResourceNotFound 覆盖商品服务的所有失败：4xx、5xx、连接失败、意外错误。
	KindResourceNotFound
	KindInventoryNotFound
	KindInsufficientStock
)

func (k Kind) String() string {
	switch k {
	case KindResourceNotFound:
		return "resource_not_found"
	case KindInventoryNotFound:
		return "inventory_not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	default:
		return "unknown"
	}
}

// UpstreamCause 细分商品服务失败的原因。只影响日志、指标和 Detail 文案，不影响 Kind。
type UpstreamCause int

const (
	CauseNone UpstreamCause = iota
	CauseClientError
	CauseServerError
	CauseUnexpectedStatus
	CauseUnreachable
	CauseUnexpected
)

func (c UpstreamCause) String() string {
	switch c {
	case CauseClientError:
		return "client_error"
	case CauseServerError:
		return "server_error"
	case CauseUnexpectedStatus:
		return "unexpected_status"
	case CauseUnreachable:
		return "unreachable"
	case CauseUnexpected:
		return "unexpected"
	default:
		return "none"
	}
}

const (
	MsgInventoryNotFound  = "Inventario no encontrado"
	MsgInsufficientStock  = "Inventario insuficiente"
	productServiceSubject = "el servicio de productos"
)

// Error 是库存领域错误。Detail 是给调用方看的完整描述。
type Error struct {
	Kind       Kind
	Cause      UpstreamCause
	StatusCode int // 商品服务返回的状态码，没有时为 0
	Detail     string
	Err        error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Err }

// Is 让 errors.Is 可以按 Kind 匹配哨兵错误。
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Cause == CauseNone || t.Cause == e.Cause)
}

// 哨兵错误，用于 errors.Is 判断
var (
	ErrResourceNotFound  = &Error{Kind: KindResourceNotFound, Detail: "recurso no encontrado"}
	ErrInventoryNotFound = &Error{Kind: KindInventoryNotFound, Detail: MsgInventoryNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Detail: MsgInsufficientStock}

	// ErrStockRecordNotFound 是仓储层的“查无记录”，由应用层翻译成 ErrInventoryNotFound。
	ErrStockRecordNotFound = errors.New("stock record not found")
)

// KindOf 返回 err 链上第一个领域错误的 Kind。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NewInventoryNotFound 表示商品存在但没有库存记录。
func NewInventoryNotFound() *Error {
	return &Error{Kind: KindInventoryNotFound, Detail: MsgInventoryNotFound}
}

// NewInsufficientStock 表示库存不足以完成扣减。
func NewInsufficientStock() *Error {
	return &Error{Kind: KindInsufficientStock, Detail: MsgInsufficientStock}
}

// NewUpstreamClientError 商品服务返回 4xx。
func NewUpstreamClientError(status int, body string) *Error {
	msg := fmt.Sprintf("Error del cliente al consultar %s (HTTP %d): %s", productServiceSubject, status, body)
	return &Error{
		Kind:       KindResourceNotFound,
		Cause:      CauseClientError,
		StatusCode: status,
		Detail:     "Error del servicio de productos: " + msg,
	}
}

// NewUpstreamServerError 商品服务返回 5xx。
func NewUpstreamServerError(status int, body string) *Error {
	msg := fmt.Sprintf("Error del servidor al consultar %s (HTTP %d): %s", productServiceSubject, status, body)
	return &Error{
		Kind:       KindResourceNotFound,
		Cause:      CauseServerError,
		StatusCode: status,
		Detail:     "Error del servicio de productos (servidor): " + msg,
	}
}

// NewUpstreamUnexpectedStatus 商品服务返回了非 2xx 且不属于 4xx/5xx 的状态码。
func NewUpstreamUnexpectedStatus(productID int64, status int, body string) *Error {
	return &Error{
		Kind:       KindResourceNotFound,
		Cause:      CauseUnexpectedStatus,
		StatusCode: status,
		Detail: fmt.Sprintf("Error inesperado del servicio de productos al validar ID: %d (HTTP %d): %s",
			productID, status, body),
	}
}

// NewUpstreamUnreachable 网络层失败（连接拒绝、超时、DNS、服务发现失败）。
func NewUpstreamUnreachable(err error) *Error {
	return &Error{
		Kind:   KindResourceNotFound,
		Cause:  CauseUnreachable,
		Detail: "No se pudo conectar con " + productServiceSubject + ": " + err.Error(),
		Err:    err,
	}
}

// NewUpstreamUnexpected 其它无法归类的失败。
func NewUpstreamUnexpected(err error) *Error {
	return &Error{
		Kind:   KindResourceNotFound,
		Cause:  CauseUnexpected,
		Detail: "Error interno al validar existencia de producto: " + err.Error(),
		Err:    err,
	}
}
