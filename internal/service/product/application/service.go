// internal/service/product/application/service.go
package application

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/logger"
	"tienda/internal/service/product/domain"
)

// ProductService 是商品目录的应用服务。
type ProductService struct {
	repo   domain.ProductRepository
	tracer trace.Tracer
}

func NewProductService(repo domain.ProductRepository, tracer trace.Tracer) *ProductService {
	return &ProductService{repo: repo, tracer: tracer}
}

// Create 保存新商品，请求里的 ID 被忽略。
func (s *ProductService) Create(ctx context.Context, req ProductDTO) (*ProductDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateProduct")
	defer span.End()

	log := logger.Ctx(ctx)
	log.Info().Str("name", req.Name).Str("price", req.Price.String()).Msg("creating product")

	p := &domain.Product{Name: req.Name, Description: req.Description, Price: req.Price}
	if err := s.repo.Save(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "save product")
	}

	span.SetAttributes(attribute.Int64("product.id", p.ID))
	log.Info().Int64("product_id", p.ID).Msg("product saved")
	return toDTO(p), nil
}

// Get 查询不到时返回的错误与 domain.ErrProductNotFound 匹配。
func (s *ProductService) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	log := logger.Ctx(ctx)
	log.Info().Int64("product_id", id).Msg("looking up product")

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrProductNotFound) {
			log.Warn().Int64("product_id", id).Msg("product not found")
			return nil, domain.NewProductNotFound(id)
		}
		return nil, errors.Wrap(err, "find product")
	}

	log.Info().Str("name", p.Name).Msg("product found")
	return toDTO(p), nil
}

func (s *ProductService) List(ctx context.Context) ([]*ProductDTO, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "list products")
	}

	out := make([]*ProductDTO, len(products))
	for i, p := range products {
		out[i] = toDTO(p)
	}
	logger.Ctx(ctx).Info().Int("count", len(out)).Msg("products listed")
	return out, nil
}
