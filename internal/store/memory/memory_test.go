package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
)

func doc(t *testing.T, src string) document.Document {
	t.Helper()
	d, err := document.FromJSON([]byte(src))
	if err != nil {
		t.Fatalf("bad fixture %s: %v", src, err)
	}
	return d
}

func TestCreateAndExists(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Create(ctx, "users"); err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, err := s.Exists(ctx, "users")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true", ok, err)
	}
	ok, _ = s.Exists(ctx, "orders")
	if ok {
		t.Error("Exists(orders) = true, want false")
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Create(ctx, "users")
	err := s.Create(ctx, "users")
	if !errors.Is(err, domain.ErrCollectionExists) {
		t.Errorf("err = %v, want ErrCollectionExists", err)
	}
}

func TestNamesCreationOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		_ = s.Create(ctx, name)
	}
	names, err := s.Names(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 3 || names[0] != "c" || names[1] != "a" || names[2] != "b" {
		t.Errorf("Names = %v, want [c a b]", names)
	}
}

func TestAppendAndDocsOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Create(ctx, "users")
	if err := s.Append(ctx, "users", doc(t, `{"id":"1"}`), doc(t, `{"id":"2"}`)); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = s.Append(ctx, "users", doc(t, `{"id":"3"}`))

	docs, err := s.Docs(ctx, "users")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if len(docs) != 3 || docs[0].ID() != "1" || docs[2].ID() != "3" {
		t.Errorf("Docs order wrong: %v", docs)
	}
}

func TestDocsUnknownCollection(t *testing.T) {
	s := New()
	_, err := s.Docs(context.Background(), "nope")
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("err = %v, want ErrCollectionNotFound", err)
	}
}

func TestAppendUnknownCollection(t *testing.T) {
	s := New()
	err := s.Append(context.Background(), "nope", doc(t, `{"id":"1"}`))
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("err = %v, want ErrCollectionNotFound", err)
	}
}

func TestDocsSnapshotIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Create(ctx, "users")
	_ = s.Append(ctx, "users", doc(t, `{"id":"1"}`))

	snap, _ := s.Docs(ctx, "users")
	_ = s.Append(ctx, "users", doc(t, `{"id":"2"}`))

	if len(snap) != 1 {
		t.Errorf("snapshot grew after append: len = %d", len(snap))
	}
}
