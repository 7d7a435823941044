package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDebit(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		amount    int
		want      int
		wantError bool
	}{
		{name: "partial debit", quantity: 100, amount: 10, want: 90},
		{name: "exact debit drops to zero", quantity: 10, amount: 10, want: 0},
		{name: "insufficient", quantity: 5, amount: 10, want: 5, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &StockRecord{ID: 1, ProductID: 101, Quantity: tt.quantity}
			err := rec.Debit(tt.amount)
			if (err != nil) != tt.wantError {
				t.Fatalf("Debit() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.wantError && !errors.Is(err, ErrInsufficientStock) {
				t.Fatalf("expected ErrInsufficientStock, got %v", err)
			}
			if rec.Quantity != tt.want {
				t.Fatalf("expected quantity %d, got %d", tt.want, rec.Quantity)
			}
		})
	}
}

func TestErrorIsMatchesByKind(t *testing.T) {
	upstream := []*Error{
		NewUpstreamClientError(404, "nf"),
		NewUpstreamServerError(503, "down"),
		NewUpstreamUnexpectedStatus(7, 302, ""),
		NewUpstreamUnreachable(errors.New("connection refused")),
		NewUpstreamUnexpected(errors.New("boom")),
	}
	for _, e := range upstream {
		wrapped := fmt.Errorf("query: %w", e)
		if !errors.Is(wrapped, ErrResourceNotFound) {
			t.Errorf("%s: expected to match ErrResourceNotFound", e.Cause)
		}
		if errors.Is(wrapped, ErrInventoryNotFound) || errors.Is(wrapped, ErrInsufficientStock) {
			t.Errorf("%s: must not match local kinds", e.Cause)
		}
		if KindOf(wrapped) != KindResourceNotFound {
			t.Errorf("%s: unexpected kind %s", e.Cause, KindOf(wrapped))
		}
	}

	if !errors.Is(NewInventoryNotFound(), ErrInventoryNotFound) {
		t.Error("expected inventory not found to match its sentinel")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain errors must be unclassified")
	}
}

func TestUpstreamDetailText(t *testing.T) {
	tests := []struct {
		err    *Error
		prefix string
		parts  []string
	}{
		{NewUpstreamClientError(404, `{"errors":[]}`), "Error del servicio de productos: ", []string{"HTTP 404", `{"errors":[]}`}},
		{NewUpstreamServerError(500, "oops"), "Error del servicio de productos (servidor): ", []string{"HTTP 500", "oops"}},
		{NewUpstreamUnexpectedStatus(9, 304, ""), "Error inesperado del servicio de productos al validar ID: 9", []string{"HTTP 304"}},
		{NewUpstreamUnreachable(errors.New("dial tcp: connection refused")), "No se pudo conectar con el servicio de productos: ", []string{"connection refused"}},
		{NewUpstreamUnexpected(errors.New("bad url")), "Error interno al validar existencia de producto: ", []string{"bad url"}},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.err.Error(), tt.prefix) {
			t.Errorf("expected prefix %q in %q", tt.prefix, tt.err.Error())
		}
		for _, p := range tt.parts {
			if !strings.Contains(tt.err.Error(), p) {
				t.Errorf("expected %q in %q", p, tt.err.Error())
			}
		}
	}
}

func TestValidationOutcome(t *testing.T) {
	found := Found(ProductRef{Body: []byte(`{"id":1}`)})
	if !found.IsFound() || found.Err() != nil || found.Ref().String() != `{"id":1}` {
		t.Fatalf("unexpected found outcome %+v", found)
	}

	failed := Failed(NewUpstreamClientError(404, ""))
	if failed.IsFound() || !errors.Is(failed.Err(), ErrResourceNotFound) {
		t.Fatalf("unexpected failed outcome %+v", failed)
	}

	if Failed(nil).IsFound() {
		t.Fatal("Failed(nil) must still be a failure")
	}
}
