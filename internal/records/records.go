// Package records loads and samples the JSON records used as ground truth
// for index configuration suggestions.
package records

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one object from the dataset being indexed. Records have no fixed
// schema; values may be strings, numbers, booleans, nulls, arrays, or nested
// objects.
type Record = map[string]any

// DefaultSampleLimit bounds how many records are sent to the model and used
// for validation. A few dozen records is enough to establish the shape of
// the dataset without blowing out the prompt.
const DefaultSampleLimit = 20

// Load reads records from r. It accepts either a single JSON array of
// objects or newline-delimited JSON objects.
func Load(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	first, err := firstNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	if first == '[' {
		var recs []Record
		if err := json.NewDecoder(br).Decode(&recs); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
		return recs, nil
	}

	// NDJSON: one object per line
	var recs []Record
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("decode record on line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return recs, nil
}

// LoadFile reads records from path, or from stdin when path is "-".
func LoadFile(path string) ([]Record, error) {
	if path == "-" {
		return Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Sample returns the leading slice of recs, at most limit entries.
// A limit <= 0 falls back to DefaultSampleLimit.
func Sample(recs []Record, limit int) []Record {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	if len(recs) <= limit {
		return recs
	}
	return recs[:limit]
}

// Keys returns the set of attribute paths present across recs: every
// top-level key, plus "parent.child" dotted paths for keys whose value is a
// plain nested object (arrays do not contribute dotted paths).
func Keys(recs []Record) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, rec := range recs {
		for name, value := range rec {
			keys[name] = struct{}{}
			nested, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for child := range nested {
				keys[name+"."+child] = struct{}{}
			}
		}
	}
	return keys
}

// firstNonSpace peeks past leading whitespace without consuming the reader.
func firstNonSpace(br *bufio.Reader) (byte, error) {
	for n := 1; ; n++ {
		buf, err := br.Peek(n)
		if err != nil {
			return 0, err
		}
		c := buf[n-1]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		return c, nil
	}
}
