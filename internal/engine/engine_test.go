package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/docql/internal/domain"
	"github.com/kailas-cloud/docql/internal/domain/document"
	"github.com/kailas-cloud/docql/internal/domain/value"
)

func docs(t *testing.T, srcs ...string) []document.Document {
	t.Helper()
	out := make([]document.Document, 0, len(srcs))
	for _, src := range srcs {
		d, err := document.FromJSON([]byte(src))
		if err != nil {
			t.Fatalf("bad fixture %s: %v", src, err)
		}
		out = append(out, d)
	}
	return out
}

func mustObj(t *testing.T, src string) *value.Obj {
	t.Helper()
	obj, err := value.DecodeJSONObject([]byte(src))
	if err != nil {
		t.Fatalf("bad fixture %s: %v", src, err)
	}
	return obj
}

func ids(results []document.Document) string {
	parts := make([]string, len(results))
	for i, d := range results {
		parts[i] = d.ID()
	}
	return strings.Join(parts, ",")
}

func run(t *testing.T, mode Mode, text string, dd []document.Document) []document.Document {
	t.Helper()
	results, err := New(mode, nil).Run(text, dd)
	if err != nil {
		t.Fatalf("Run(%q): %v", text, err)
	}
	return results
}

func TestNoWhereKeepsAllInOrder(t *testing.T) {
	dd := docs(t,
		`{"id":"3"}`, `{"id":"1"}`, `{"id":"2"}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c", dd)
	if got := ids(results); got != "3,1,2" {
		t.Errorf("ids = %s, want 3,1,2", got)
	}
}

func TestFilter(t *testing.T) {
	dd := docs(t,
		`{"id":"1","age":30}`, `{"id":"2","age":20}`, `{"id":"3","age":35}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c WHERE c.age > 25", dd)
	if got := ids(results); got != "1,3" {
		t.Errorf("ids = %s, want 1,3", got)
	}
}

func TestOrderByWithTies(t *testing.T) {
	dd := docs(t,
		`{"id":"1","age":30,"name":"B"}`,
		`{"id":"2","age":30,"name":"A"}`,
		`{"id":"3","age":20,"name":"C"}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c ORDER BY c.age DESC, c.name ASC", dd)
	if got := ids(results); got != "2,1,3" {
		t.Errorf("ids = %s, want 2,1,3", got)
	}
}

func TestOrderStableOnFullTies(t *testing.T) {
	dd := docs(t,
		`{"id":"a","age":1}`, `{"id":"b","age":1}`, `{"id":"c","age":1}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c ORDER BY c.age", dd)
	if got := ids(results); got != "a,b,c" {
		t.Errorf("ids = %s, want a,b,c (stable)", got)
	}
}

func TestOrderUndefinedAndNullFirst(t *testing.T) {
	// Undefined sorts before null, null before defined values.
	dd := docs(t,
		`{"id":"1","score":5}`,
		`{"id":"2"}`,
		`{"id":"3","score":null}`,
		`{"id":"4","score":1}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c ORDER BY c.score", dd)
	if got := ids(results); got != "2,3,4,1" {
		t.Errorf("ids = %s, want 2,3,4,1", got)
	}
}

func TestOrderMixedKindsNeverErrors(t *testing.T) {
	dd := docs(t,
		`{"id":"s","k":"zz"}`,
		`{"id":"n","k":3}`,
		`{"id":"b","k":true}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c ORDER BY c.k", dd)
	if got := ids(results); got != "b,n,s" {
		t.Errorf("ids = %s, want b,n,s (bool < number < string)", got)
	}
}

func TestLimit(t *testing.T) {
	dd := docs(t, `{"id":"1"}`, `{"id":"2"}`, `{"id":"3"}`)

	tests := []struct {
		name  string
		text  string
		count int
	}{
		{"limit under", "SELECT * FROM c LIMIT 2", 2},
		{"limit over", "SELECT * FROM c LIMIT 10", 3},
		{"limit zero", "SELECT * FROM c LIMIT 0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := run(t, ModeLenient, tt.text, dd)
			if len(results) != tt.count {
				t.Errorf("len = %d, want %d", len(results), tt.count)
			}
		})
	}
}

func TestLimitAppliesAfterOrder(t *testing.T) {
	dd := docs(t,
		`{"id":"1","age":10}`, `{"id":"2","age":30}`, `{"id":"3","age":20}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c ORDER BY c.age DESC LIMIT 1", dd)
	if got := ids(results); got != "2" {
		t.Errorf("ids = %s, want 2", got)
	}
}

func TestProjection(t *testing.T) {
	dd := docs(t, `{"id":"1","name":"Bob","age":5}`)
	results := run(t, ModeLenient, "SELECT c.name FROM c", dd)
	if len(results) != 1 {
		t.Fatalf("len = %d, want 1", len(results))
	}
	if got := string(results[0].JSON()); got != `{"id":"1","name":"Bob"}` {
		t.Errorf("projected = %s, want {\"id\":\"1\",\"name\":\"Bob\"}", got)
	}
}

func TestProjectionNestedPath(t *testing.T) {
	dd := docs(t, `{"id":"1","address":{"city":"Oslo","zip":"0150"},"name":"Bob"}`)
	results := run(t, ModeLenient, "SELECT c.address.city FROM c", dd)
	if got := string(results[0].JSON()); got != `{"id":"1","address":{"city":"Oslo"}}` {
		t.Errorf("projected = %s", got)
	}
}

func TestProjectionDropsUndefined(t *testing.T) {
	dd := docs(t, `{"id":"1","name":"Bob"}`)
	results := run(t, ModeLenient, "SELECT c.name, c.missing FROM c", dd)
	if got := string(results[0].JSON()); got != `{"id":"1","name":"Bob"}` {
		t.Errorf("projected = %s", got)
	}
}

func TestProjectionWithoutID(t *testing.T) {
	// Reconstructed documents can lack id; projection must not invent one.
	dd := []document.Document{document.Reconstruct(mustObj(t, `{"name":"Bob"}`))}
	results := run(t, ModeLenient, "SELECT c.name FROM c", dd)
	if got := string(results[0].JSON()); got != `{"name":"Bob"}` {
		t.Errorf("projected = %s", got)
	}
}

func TestLenientExcludesMismatchedDocument(t *testing.T) {
	dd := docs(t,
		`{"id":"1","age":30}`,
		`{"id":"2","age":"thirty"}`, // string > int: unsupported comparison
		`{"id":"3","age":40}`,
	)
	results := run(t, ModeLenient, "SELECT * FROM c WHERE c.age > 25", dd)
	if got := ids(results); got != "1,3" {
		t.Errorf("ids = %s, want 1,3", got)
	}
}

func TestStrictPropagatesMismatch(t *testing.T) {
	dd := docs(t,
		`{"id":"1","age":30}`,
		`{"id":"2","age":"thirty"}`,
	)
	_, err := New(ModeStrict, nil).Run("SELECT * FROM c WHERE c.age > 25", dd)
	if !errors.Is(err, domain.ErrUnsupportedComparison) {
		t.Errorf("err = %v, want ErrUnsupportedComparison", err)
	}
}

func TestUnknownFunctionFailsEitherMode(t *testing.T) {
	dd := docs(t, `{"id":"1","name":"x"}`)
	for _, mode := range []Mode{ModeLenient, ModeStrict} {
		_, err := New(mode, nil).Run("SELECT * FROM c WHERE ENDSWITH(c.name, 'x')", dd)
		if !errors.Is(err, domain.ErrUnknownFunction) {
			t.Errorf("mode %d: err = %v, want ErrUnknownFunction", mode, err)
		}
	}
}

func TestIdempotence(t *testing.T) {
	dd := docs(t,
		`{"id":"1","age":30,"name":"B"}`,
		`{"id":"2","age":30,"name":"A"}`,
		`{"id":"3","age":20,"name":"C"}`,
	)
	e := New(ModeLenient, nil)
	text := "SELECT c.name FROM c WHERE c.age >= 20 ORDER BY c.age DESC, c.name"

	first, err := e.Run(text, dd)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := e.Run(text, dd)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if ids(first) != ids(second) {
		t.Errorf("runs differ: %s vs %s", ids(first), ids(second))
	}
	// Input order untouched.
	if got := ids(dd); got != "1,2,3" {
		t.Errorf("input mutated: %s", got)
	}
}

func TestInputSliceNotReordered(t *testing.T) {
	dd := docs(t, `{"id":"2","n":2}`, `{"id":"1","n":1}`)
	_ = run(t, ModeLenient, "SELECT * FROM c ORDER BY c.n", dd)
	if got := ids(dd); got != "2,1" {
		t.Errorf("input order mutated: %s", got)
	}
}

func TestParseErrorSurfaces(t *testing.T) {
	_, err := New(ModeLenient, nil).Run("SELECT FROM c", nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
}
