package ai

import (
	"encoding/json"
	"fmt"
)

// ExtractJSON locates the first balanced JSON object in a model reply and
// unmarshals it into v. Models often wrap the JSON in prose or markdown
// fences even when asked not to.
func ExtractJSON(text string, v any) error {
	start := -1
	end := -1
	braceCount := 0

	for i, c := range text {
		if c == '{' {
			if start == -1 {
				start = i
			}
			braceCount++
		} else if c == '}' {
			braceCount--
			if braceCount == 0 && start != -1 {
				end = i + 1
				break
			}
		}
	}

	if start == -1 || end == -1 {
		return fmt.Errorf("no JSON object found in response")
	}

	return json.Unmarshal([]byte(text[start:end]), v)
}
