package records

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestLoad_JSONArray(t *testing.T) {
	recs, err := Load(strings.NewReader(`[{"title": "a"}, {"title": "b", "price": 2}]`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1]["price"] != 2.0 {
		t.Fatalf("unexpected price %v", recs[1]["price"])
	}
}

func TestLoad_NDJSON(t *testing.T) {
	input := "{\"title\": \"a\"}\n\n{\"title\": \"b\"}\n"
	recs, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestLoad_LeadingWhitespaceArray(t *testing.T) {
	recs, err := Load(strings.NewReader("  \n\t[{\"title\": \"a\"}]"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}

func TestLoad_MalformedLine(t *testing.T) {
	if _, err := Load(strings.NewReader("{\"ok\": true}\n{broken\n")); err == nil {
		t.Fatal("expected error for malformed NDJSON line")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(`[{"title": "a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSample(t *testing.T) {
	recs := make([]Record, 30)
	for i := range recs {
		recs[i] = Record{"n": float64(i)}
	}

	if got := Sample(recs, 10); len(got) != 10 {
		t.Fatalf("expected 10, got %d", len(got))
	}
	if got := Sample(recs, 0); len(got) != DefaultSampleLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultSampleLimit, len(got))
	}
	if got := Sample(recs[:3], 10); len(got) != 3 {
		t.Fatalf("expected all 3, got %d", len(got))
	}
}

func TestKeys(t *testing.T) {
	recs := []Record{
		{
			"title": "a",
			"author": map[string]any{
				"name":  "kim",
				"email": "k@example.com",
			},
			"tags": []any{"x"},
		},
		{"price": 2.0},
	}

	keys := Keys(recs)
	var got []string
	for k := range keys {
		got = append(got, k)
	}
	sort.Strings(got)

	want := []string{"author", "author.email", "author.name", "price", "tags", "title"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
