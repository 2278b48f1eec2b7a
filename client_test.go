package docql

import (
	"context"
	"errors"
	"testing"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func seed(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	if err := c.CreateCollection(ctx, "orders"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	_, err := c.Append(ctx, "orders",
		[]byte(`{"id":"1","status":"open","total":50}`),
		[]byte(`{"id":"2","status":"closed","total":10}`),
		[]byte(`{"id":"3","status":"open","total":30}`),
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestClient_EndToEnd(t *testing.T) {
	c := newClient(t)
	seed(t, c)
	ctx := context.Background()

	names, err := c.Collections(ctx)
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if len(names) != 1 || names[0] != "orders" {
		t.Errorf("expected [orders], got %v", names)
	}

	docs, err := c.Query(ctx, "orders",
		"SELECT c.id, c.total FROM c WHERE c.status = 'open' ORDER BY c.total DESC")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := []string{"1", "3"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d docs, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.ID() != want[i] {
			t.Errorf("position %d: expected id %s, got %s", i, want[i], doc.ID())
		}
	}

	var row struct {
		ID    string `json:"id"`
		Total int    `json:"total"`
	}
	if err := docs[0].Unmarshal(&row); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if row.Total != 50 {
		t.Errorf("expected total 50, got %d", row.Total)
	}
}

func TestClient_QueryPage(t *testing.T) {
	c := newClient(t)
	seed(t, c)
	ctx := context.Background()

	const text = "SELECT * FROM c ORDER BY c.total"
	var got []string
	token := ""
	for {
		page, next, err := c.QueryPage(ctx, "orders", text, 2, token)
		if err != nil {
			t.Fatalf("QueryPage: %v", err)
		}
		for _, doc := range page {
			got = append(got, doc.ID())
		}
		if next == "" {
			break
		}
		token = next
	}

	want := []string{"2", "3", "1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestClient_StrictMode(t *testing.T) {
	c, err := New(WithStrictMode())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	ctx := context.Background()

	if err := c.CreateCollection(ctx, "items"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if _, err := c.Append(ctx, "items", []byte(`{"id":"a","v":"text"}`)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	_, err = c.Query(ctx, "items", "SELECT * FROM c WHERE c.v > 5")
	if !errors.Is(err, ErrUnsupportedComparison) {
		t.Errorf("expected ErrUnsupportedComparison, got %v", err)
	}
}

func TestClient_UnknownCollection(t *testing.T) {
	c := newClient(t)

	_, err := c.Query(context.Background(), "nope", "SELECT * FROM c")
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}
