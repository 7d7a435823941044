package infrastructure

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tienda/internal/pkg/database"
	"tienda/internal/service/inventory/domain"
)

var (
	lockQuery    = `SELECT \* FROM ` + "`inventarios`" + ` WHERE producto_id = \? .*FOR UPDATE`
	updateStmt   = regexp.QuoteMeta("UPDATE `inventarios` SET `cantidad`=? WHERE id = ?")
	insertStmt   = regexp.QuoteMeta("INSERT INTO `inventarios` (`producto_id`,`cantidad`) VALUES (?,?)")
	stockColumns = []string{"id", "producto_id", "cantidad"}
)

func newMockRepository(t *testing.T) (*GormStockRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewGormStockRepository(db), mock
}

func TestGormUpdateLocksAndWritesInOneTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WillReturnRows(sqlmock.NewRows(stockColumns).AddRow(1, 101, 100))
	mock.ExpectExec(updateStmt).
		WithArgs(90, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := repo.UpdateByProductID(context.Background(), 101, func(r *domain.StockRecord) error {
		return r.Debit(10)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *updated != (domain.StockRecord{ID: 1, ProductID: 101, Quantity: 90}) {
		t.Fatalf("unexpected record %+v", updated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGormUpdateInsufficientStockRollsBackWithoutWrite(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WillReturnRows(sqlmock.NewRows(stockColumns).AddRow(1, 101, 5))
	mock.ExpectRollback()

	_, err := repo.UpdateByProductID(context.Background(), 101, func(r *domain.StockRecord) error {
		return r.Debit(10)
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	// 多出的 UPDATE 会让 sqlmock 报未预期的语句
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGormUpdateMissingRecord(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WillReturnRows(sqlmock.NewRows(stockColumns))
	mock.ExpectRollback()

	called := false
	_, err := repo.UpdateByProductID(context.Background(), 101, func(*domain.StockRecord) error {
		called = true
		return nil
	})
	if !errors.Is(err, domain.ErrStockRecordNotFound) {
		t.Fatalf("expected stock record not found, got %v", err)
	}
	if called {
		t.Fatal("mutate must not run without a record")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGormFindByProductIDMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM ` + "`inventarios`" + ` WHERE producto_id = \?`).
		WillReturnRows(sqlmock.NewRows(stockColumns))

	if _, err := repo.FindByProductID(context.Background(), 101); !errors.Is(err, domain.ErrStockRecordNotFound) {
		t.Fatalf("expected stock record not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGormCreateInsertsAndBackfillsID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertStmt).
		WithArgs(int64(101), 70).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	record := domain.NewStockRecord(101, 70)
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != 5 {
		t.Fatalf("expected id 5, got %d", record.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGormCreateDuplicateProduct(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertStmt).
		WithArgs(int64(101), 70).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '101' for key 'producto_id'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), domain.NewStockRecord(101, 70))
	if !database.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
	if !strings.Contains(err.Error(), "stock record for product 101 already exists") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if domain.KindOf(err) != domain.KindUnknown {
		t.Fatalf("duplicate key must stay unclassified, got %s", domain.KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
