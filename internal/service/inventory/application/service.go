// internal/service/inventory/application/service.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/metrics"
	"tienda/internal/service/inventory/domain"
	"tienda/internal/service/inventory/domain/port"
)

// InventoryService 编排“商品存在性校验 -> 本地库存变更”。
// 自身不持有可变状态；校验总是先于任何写操作。
type InventoryService struct {
	repo    domain.StockRepository
	oracle  port.ProductOracle
	events  port.StockEventPublisher
	metrics *metrics.Inventory
	tracer  trace.Tracer
}

func NewInventoryService(repo domain.StockRepository, oracle port.ProductOracle, events port.StockEventPublisher, m *metrics.Inventory, tracer trace.Tracer) *InventoryService {
	return &InventoryService{repo: repo, oracle: oracle, events: events, metrics: m, tracer: tracer}
}

// Query 只做存在性校验，成功时原样返回商品服务的报文。
func (s *InventoryService) Query(ctx context.Context, productID int64) (domain.ProductRef, error) {
	ctx, span := s.tracer.Start(ctx, "app.QueryInventory")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	logger.Ctx(ctx).Info().Int64("product_id", productID).Msg("querying inventory")

	ref, err := s.validateProduct(ctx, productID)
	if err != nil {
		s.fail(span, "query", err)
		return domain.ProductRef{}, err
	}

	s.metrics.Operations.WithLabelValues("query", "ok").Inc()
	return ref, nil
}

// SetQuantity 校验通过后总是插入一条新的库存记录，不查找已有记录，也不校验数量正负。
func (s *InventoryService) SetQuantity(ctx context.Context, productID int64, newQuantity int) (*domain.StockRecordDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.SetQuantity")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("inventory.quantity", newQuantity),
	)

	log := logger.Ctx(ctx)
	log.Info().Int64("product_id", productID).Int("quantity", newQuantity).Msg("setting inventory quantity")

	if _, err := s.validateProduct(ctx, productID); err != nil {
		s.fail(span, "set", err)
		return nil, err
	}

	record := domain.NewStockRecord(productID, newQuantity)
	if err := s.repo.Create(ctx, record); err != nil {
		err = errors.Wrap(err, "save stock record")
		s.fail(span, "set", err)
		return nil, err
	}
	log.Info().Int64("product_id", record.ProductID).Int64("id", record.ID).Int("quantity", record.Quantity).Msg("inventory quantity set")

	s.publish(ctx, domain.OperationSet, record, newQuantity)
	s.metrics.Operations.WithLabelValues("set", "ok").Inc()
	span.AddEvent("Stock record created")
	return record.ToDTO(), nil
}

// Purchase 校验通过后在同一事务中检查并扣减库存。
func (s *InventoryService) Purchase(ctx context.Context, productID int64, quantity int) (*domain.StockRecordDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.Purchase")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("purchase.quantity", quantity),
	)

	log := logger.Ctx(ctx)
	log.Info().Int64("product_id", productID).Int("quantity", quantity).Msg("processing purchase")

	if _, err := s.validateProduct(ctx, productID); err != nil {
		s.fail(span, "purchase", err)
		return nil, err
	}

	var available int
	record, err := s.repo.UpdateByProductID(ctx, productID, func(rec *domain.StockRecord) error {
		available = rec.Quantity
		return rec.Debit(quantity)
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStockRecordNotFound):
		log.Warn().Int64("product_id", productID).Msg("inventory not found")
		err = domain.NewInventoryNotFound()
		s.fail(span, "purchase", err)
		return nil, err
	case errors.Is(err, domain.ErrInsufficientStock):
		log.Warn().Int64("product_id", productID).Int("available", available).Int("requested", quantity).Msg("insufficient inventory")
		s.fail(span, "purchase", err)
		return nil, err
	default:
		err = errors.Wrap(err, "debit stock record")
		s.fail(span, "purchase", err)
		return nil, err
	}

	log.Info().Int64("product_id", productID).Int("quantity", record.Quantity).Msg("purchase completed")
	s.publish(ctx, domain.OperationPurchase, record, -quantity)
	s.metrics.Operations.WithLabelValues("purchase", "ok").Inc()
	span.AddEvent("Stock debited")
	return record.ToDTO(), nil
}

// validateProduct 把 ValidationOutcome 展开成 Go 的 (值, error) 形式。
func (s *InventoryService) validateProduct(ctx context.Context, productID int64) (domain.ProductRef, error) {
	out := s.oracle.Validate(ctx, productID)
	if out.IsFound() {
		s.metrics.Validations.WithLabelValues("found").Inc()
		return out.Ref(), nil
	}

	failure := out.Failure()
	s.metrics.Validations.WithLabelValues(failure.Cause.String()).Inc()
	logger.Ctx(ctx).Error().
		Int64("product_id", productID).
		Str("cause", failure.Cause.String()).
		Int("upstream_status", failure.StatusCode).
		Msg("product validation failed")
	return domain.ProductRef{}, failure
}

// publish 的失败只记录，不影响已经提交的库存变更。
func (s *InventoryService) publish(ctx context.Context, op domain.Operation, record *domain.StockRecord, delta int) {
	event := domain.StockChanged{
		EventID:       uuid.New().String(),
		Operation:     op,
		ProductID:     record.ProductID,
		StockRecordID: record.ID,
		Quantity:      record.Quantity,
		Delta:         delta,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.events.PublishStockChanged(ctx, event); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		logger.Ctx(ctx).Error().Err(err).Str("event_id", event.EventID).Msg("failed to publish stock changed event")
		return
	}
	s.metrics.EventsPublished.WithLabelValues("ok").Inc()
}

func (s *InventoryService) fail(span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	result := "error"
	if kind := domain.KindOf(err); kind != domain.KindUnknown {
		result = kind.String()
	}
	s.metrics.Operations.WithLabelValues(operation, result).Inc()
}
