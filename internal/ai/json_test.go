package ai

import "testing"

type sectionReply struct {
	Attributes  []string `json:"searchableAttributes"`
	Explanation string   `json:"explanation"`
}

func TestExtractJSON_ValidJSON(t *testing.T) {
	input := `{"searchableAttributes": ["title", "description"], "explanation": "text fields"}`
	var result sectionReply
	if err := ExtractJSON(input, &result); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(result.Attributes))
	}
	if result.Explanation != "text fields" {
		t.Fatalf("unexpected explanation %q", result.Explanation)
	}
}

func TestExtractJSON_MarkdownFences(t *testing.T) {
	input := "```json\n{\"searchableAttributes\": [\"title\"], \"explanation\": \"x\"}\n```"
	var result sectionReply
	if err := ExtractJSON(input, &result); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Attributes) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(result.Attributes))
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	var result sectionReply
	if err := ExtractJSON("This is just plain text with no JSON.", &result); err == nil {
		t.Fatal("expected error for no JSON, got nil")
	}
}

func TestExtractJSON_MalformedJSON(t *testing.T) {
	var result sectionReply
	if err := ExtractJSON(`{"searchableAttributes": [}`, &result); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestExtractJSON_NestedBracesAndProse(t *testing.T) {
	input := `Here is the config {"searchableAttributes": ["spec {A}"], "explanation": "x"} hope it helps`
	var result sectionReply
	if err := ExtractJSON(input, &result); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Attributes[0] != "spec {A}" {
		t.Fatalf("unexpected attribute %q", result.Attributes[0])
	}
}

func TestUsage_Add(t *testing.T) {
	u := Usage{PromptTokens: 100, CompletionTokens: 10}
	u.Add(Usage{PromptTokens: 50, CompletionTokens: 5})
	if u.PromptTokens != 150 || u.CompletionTokens != 15 {
		t.Fatalf("unexpected usage after add: %+v", u)
	}
	if u.Total() != 165 {
		t.Fatalf("expected total 165, got %d", u.Total())
	}
}
