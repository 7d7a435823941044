package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestProductNotFound(t *testing.T) {
	err := fmt.Errorf("get: %w", NewProductNotFound(42))
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatal("expected to match ErrProductNotFound")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.ID != 42 {
		t.Fatalf("expected NotFoundError with id 42, got %+v", nf)
	}
	if nf.Error() != "Producto no encontrado con id 42" {
		t.Fatalf("unexpected message %q", nf.Error())
	}
}
