package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"

	"tienda/internal/service/product/domain"
)

const monitorJSON = `{"id":1,"name":"Monitor","description":"27 pulgadas","price":"1299.99"}`

func monitor() domain.Product {
	return domain.Product{ID: 1, Name: "Monitor", Description: "27 pulgadas", Price: decimal.RequireFromString("1299.99")}
}

// countingRepo 统计底层查询次数
type countingRepo struct {
	*MemoryProductRepository
	finds int
}

func (c *countingRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	c.finds++
	return c.MemoryProductRepository.FindByID(ctx, id)
}

func TestCachedFindByIDHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingRepo{MemoryProductRepository: NewMemoryProductRepository()}
	repo := NewCachedProductRepository(inner, db, time.Minute)

	mock.ExpectGet("product:1").SetVal(monitorJSON)

	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name != "Monitor" || !p.Price.Equal(decimal.RequireFromString("1299.99")) {
		t.Errorf("unexpected product %+v", p)
	}
	if inner.finds != 0 {
		t.Errorf("cache hit must not reach the store, got %d finds", inner.finds)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCachedFindByIDMissPopulatesCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingRepo{MemoryProductRepository: NewMemoryProductRepository(monitor())}
	repo := NewCachedProductRepository(inner, db, time.Minute)

	mock.ExpectGet("product:1").RedisNil()
	mock.ExpectSet("product:1", monitorJSON, time.Minute).SetVal("OK")

	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.ID != 1 || inner.finds != 1 {
		t.Errorf("unexpected result %+v after %d finds", p, inner.finds)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCachedFindByIDNotFoundIsNotCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCachedProductRepository(NewMemoryProductRepository(), db, time.Minute)

	mock.ExpectGet("product:7").RedisNil()

	_, err := repo.FindByID(context.Background(), 7)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCachedFindByIDRedisDownFallsBack(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingRepo{MemoryProductRepository: NewMemoryProductRepository(monitor())}
	repo := NewCachedProductRepository(inner, db, time.Minute)

	mock.ExpectGet("product:1").SetErr(errors.New("connection refused"))
	mock.ExpectSet("product:1", monitorJSON, time.Minute).SetErr(errors.New("connection refused"))

	p, err := repo.FindByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("redis failures must degrade to the store, got %v", err)
	}
	if p.Name != "Monitor" || inner.finds != 1 {
		t.Errorf("unexpected result %+v after %d finds", p, inner.finds)
	}
}

func TestCachedFindByIDCorruptEntryFallsBack(t *testing.T) {
	db, mock := redismock.NewClientMock()
	inner := &countingRepo{MemoryProductRepository: NewMemoryProductRepository(monitor())}
	repo := NewCachedProductRepository(inner, db, time.Minute)

	mock.ExpectGet("product:1").SetVal("{not json")
	mock.ExpectSet("product:1", monitorJSON, time.Minute).SetVal("OK")

	if _, err := repo.FindByID(context.Background(), 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if inner.finds != 1 {
		t.Errorf("expected one store read, got %d", inner.finds)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
