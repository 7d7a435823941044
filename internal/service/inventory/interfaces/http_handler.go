// internal/service/inventory/interfaces/http_handler.go
package interfaces

import (
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/jsonapi"
	"tienda/internal/pkg/logger"
	"tienda/internal/service/inventory/application"
	"tienda/internal/service/inventory/domain"
)

const resourceType = "inventario"

// InventoryHandler 封装了 inventory 服务的 HTTP 处理器
type InventoryHandler struct {
	service *application.InventoryService
	tracer  trace.Tracer
}

// NewInventoryHandler 创建一个新的 HTTP 处理器实例
func NewInventoryHandler(service *application.InventoryService, tracer trace.Tracer) *InventoryHandler {
	return &InventoryHandler{service: service, tracer: tracer}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *InventoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/inventario/{productoId}", h.queryHandler)
	mux.HandleFunc("POST /api/inventario/compra", h.purchaseHandler)
	mux.HandleFunc("POST /api/inventario/{productoId}", h.setQuantityHandler)
}

// queryHandler 原样返回商品服务的响应体
func (h *InventoryHandler) queryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.QueryInventory")
	defer span.End()

	productID, ok := bindInt64(w, r.PathValue("productoId"), "productoId")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product.id", productID))

	ref, err := h.service.Query(ctx, productID)
	if err != nil {
		writeDomainError(w, r, span, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ref.Body)
}

func (h *InventoryHandler) setQuantityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.SetQuantity")
	defer span.End()

	productID, ok := bindInt64(w, r.PathValue("productoId"), "productoId")
	if !ok {
		return
	}
	quantity, ok := bindInt(w, r.URL.Query().Get("cantidad"), "cantidad")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("inventory.quantity", quantity))

	dto, err := h.service.SetQuantity(ctx, productID, quantity)
	if err != nil {
		writeDomainError(w, r, span, err)
		return
	}
	jsonapi.WriteJSON(w, http.StatusOK, jsonapi.Wrap(resourceType, strconv.FormatInt(dto.ProductID, 10), dto))
}

func (h *InventoryHandler) purchaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.Purchase")
	defer span.End()

	q := r.URL.Query()
	productID, ok := bindInt64(w, q.Get("productoId"), "productoId")
	if !ok {
		return
	}
	quantity, ok := bindInt(w, q.Get("cantidad"), "cantidad")
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("purchase.quantity", quantity))

	dto, err := h.service.Purchase(ctx, productID, quantity)
	if err != nil {
		writeDomainError(w, r, span, err)
		return
	}
	jsonapi.WriteJSON(w, http.StatusOK, jsonapi.Wrap(resourceType, strconv.FormatInt(dto.ProductID, 10), dto))
}

// writeDomainError 把领域错误映射为 HTTP 状态码，detail 总是领域错误的原文
func writeDomainError(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var status int
	var title string
	switch {
	case errors.Is(err, domain.ErrResourceNotFound), errors.Is(err, domain.ErrInventoryNotFound):
		status, title = http.StatusNotFound, "Recurso no encontrado"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, title = http.StatusBadRequest, "Solicitud inválida"
	default:
		logger.Ctx(r.Context()).Error().Err(err).Msg("unhandled inventory error")
		jsonapi.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", "Ocurrió un error inesperado")
		return
	}
	jsonapi.WriteError(w, status, title, err.Error())
}

func bindInt64(w http.ResponseWriter, raw, pointer string) (int64, bool) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeBindingError(w, raw, pointer)
		return 0, false
	}
	return v, true
}

func bindInt(w http.ResponseWriter, raw, pointer string) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeBindingError(w, raw, pointer)
		return 0, false
	}
	return v, true
}

func writeBindingError(w http.ResponseWriter, raw, pointer string) {
	e := jsonapi.NewError(http.StatusBadRequest, "Error de validación", "Valor inválido '"+raw+"' para el parámetro "+pointer)
	e.Source = &jsonapi.Source{Pointer: pointer}
	jsonapi.WriteErrors(w, http.StatusBadRequest, e)
}
