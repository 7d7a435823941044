// internal/service/product/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/jsonapi"
	"tienda/internal/pkg/logger"
	"tienda/internal/service/product/application"
	"tienda/internal/service/product/domain"
)

const resourceType = "producto"

// ProductHandler 封装了 product 服务的 HTTP 处理器
type ProductHandler struct {
	service *application.ProductService
	tracer  trace.Tracer
}

func NewProductHandler(service *application.ProductService, tracer trace.Tracer) *ProductHandler {
	return &ProductHandler{service: service, tracer: tracer}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ProductHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/productos", h.handleCreate)
	mux.HandleFunc("GET /api/productos", h.handleList)
	mux.HandleFunc("GET /api/productos/{id}", h.handleGet)
}

func (h *ProductHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.CreateProduct")
	defer span.End()

	var req application.ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request body")
		e := jsonapi.NewError(http.StatusBadRequest, "Error de validación", "Cuerpo de la solicitud inválido: "+err.Error())
		e.Source = &jsonapi.Source{Pointer: "/"}
		jsonapi.WriteErrors(w, http.StatusBadRequest, e)
		return
	}

	dto, err := h.service.Create(ctx, req)
	if err != nil {
		writeError(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Int64("product.id", dto.ID))
	jsonapi.WriteJSON(w, http.StatusCreated, wrap(dto))
}

func (h *ProductHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.GetProduct")
	defer span.End()

	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid product id")
		e := jsonapi.NewError(http.StatusBadRequest, "Error de validación", "Valor inválido '"+raw+"' para el parámetro id")
		e.Source = &jsonapi.Source{Pointer: "id"}
		jsonapi.WriteErrors(w, http.StatusBadRequest, e)
		return
	}
	span.SetAttributes(attribute.Int64("product.id", id))

	dto, err := h.service.Get(ctx, id)
	if err != nil {
		writeError(w, r, span, err)
		return
	}
	jsonapi.WriteJSON(w, http.StatusOK, wrap(dto))
}

func (h *ProductHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.ListProducts")
	defer span.End()

	products, err := h.service.List(ctx)
	if err != nil {
		writeError(w, r, span, err)
		return
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	out := make([]jsonapi.Document[*application.ProductDTO], len(products))
	for i, dto := range products {
		out[i] = wrap(dto)
	}
	jsonapi.WriteJSON(w, http.StatusOK, out)
}

func wrap(dto *application.ProductDTO) jsonapi.Document[*application.ProductDTO] {
	return jsonapi.Wrap(resourceType, strconv.FormatInt(dto.ID, 10), dto)
}

func writeError(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, domain.ErrProductNotFound) {
		jsonapi.WriteError(w, http.StatusNotFound, "Recurso no encontrado", err.Error())
		return
	}
	logger.Ctx(r.Context()).Error().Err(err).Msg("unhandled product error")
	jsonapi.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", "Ocurrió un error inesperado")
}
