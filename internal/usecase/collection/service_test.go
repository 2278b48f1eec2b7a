package collection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/store/memory"
)

func TestCreate_ValidName(t *testing.T) {
	svc := New(memory.New())

	if err := svc.Create(context.Background(), "orders-2024_v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 1 || names[0] != "orders-2024_v1" {
		t.Errorf("expected [orders-2024_v1], got %v", names)
	}
}

func TestCreate_InvalidNames(t *testing.T) {
	tests := []struct {
		label string
		name  string
	}{
		{"empty", ""},
		{"spaces", "my orders"},
		{"dots", "a.b"},
		{"slash", "a/b"},
		{"too long", strings.Repeat("x", 65)},
		{"reserved", "collections"},
	}

	svc := New(memory.New())
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.name)
			if !errors.Is(err, domain.ErrInvalidName) {
				t.Errorf("expected ErrInvalidName, got %v", err)
			}
		})
	}
}

func TestCreate_Duplicate(t *testing.T) {
	svc := New(memory.New())

	if err := svc.Create(context.Background(), "orders"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := svc.Create(context.Background(), "orders")
	if !errors.Is(err, domain.ErrCollectionExists) {
		t.Errorf("expected ErrCollectionExists, got %v", err)
	}
}

func TestAppend_AssignsIDs(t *testing.T) {
	svc := New(memory.New())
	ctx := context.Background()

	if err := svc.Create(ctx, "orders"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	docs, err := svc.Append(ctx, "orders",
		[]byte(`{"id":"a","total":10}`),
		[]byte(`{"total":20}`),
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if docs[0].ID() != "a" {
		t.Errorf("expected id 'a', got %q", docs[0].ID())
	}
	if docs[1].ID() == "" {
		t.Error("expected generated id for document without one")
	}

	stored, err := svc.Get(ctx, "orders")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored documents, got %d", len(stored))
	}
}

func TestAppend_BadJSON(t *testing.T) {
	svc := New(memory.New())
	ctx := context.Background()

	if err := svc.Create(ctx, "orders"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Append(ctx, "orders", []byte(`[1,2]`)); err == nil {
		t.Error("expected error for non-object document")
	}
}

func TestAppend_MissingCollection(t *testing.T) {
	svc := New(memory.New())

	_, err := svc.Append(context.Background(), "nope", []byte(`{"a":1}`))
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestGet_MissingCollection(t *testing.T) {
	svc := New(memory.New())

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}
