package chat

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

func TestRenderIsPure(t *testing.T) {
	deps := testDeps(&stubAssistant{})
	state := started(t, deps)
	state, err := Step(context.Background(), deps, state, Prompt{Text: "Kubernetes operator in Go"})
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}

	first := Render(state, deps.Resume, deps.Config)
	second := Render(state, deps.Resume, deps.Config)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical views for the same state")
	}

	first.Messages[0].Content = "changed"
	if state.Conversation[0].Content == "changed" {
		t.Fatal("view must not share memory with state")
	}

	if first.Projects[0].Rank != 1 || first.Projects[0].Heading != "Kube operator" || first.Projects[0].Score == 0 {
		t.Fatalf("unexpected project panel: %+v", first.Projects[0])
	}
	if first.Experience[0].Heading != "Backend Engineer @ Acme" {
		t.Fatalf("unexpected experience panel: %+v", first.Experience[0])
	}
	if len(first.Experience) != DefaultPanelSize {
		t.Fatalf("expected %d experience entries, got %d", DefaultPanelSize, len(first.Experience))
	}
}

func TestRenderJSONShape(t *testing.T) {
	view := Render(NewState(), nil, Config{})

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"messages", "suggestions", "projects", "experience", "keyphrases"} {
		if _, ok := decoded[key].([]any); !ok {
			t.Fatalf("expected %s to be an array, got %v", key, decoded[key])
		}
	}
	if decoded["max_turns"] != float64(DefaultMaxTurns) {
		t.Fatalf("expected default max turns, got %v", decoded["max_turns"])
	}
}

func TestPreview(t *testing.T) {
	r := testResume()

	view := Preview(r, "python pipelines", Config{PanelSize: 1})
	if len(view.Experience) != 1 || view.Experience[0].Heading != "Data Engineer @ Numbers" {
		t.Fatalf("unexpected experience panel: %+v", view.Experience)
	}
	if !view.Keyphrases.Contains("python pipelines") {
		t.Fatalf("expected bigram keyphrase, got %v", view.Keyphrases.Sorted())
	}

	empty := Preview(r, "", Config{})
	if empty.Keyphrases.Len() != 0 || empty.Experience[0].Heading != "Support Engineer @ Helpdesk Inc" {
		t.Fatalf("expected original order without keyphrases, got %+v", empty.Experience)
	}
}
