package llm

import (
	"strings"
	"testing"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{}, nil)
	if err != nil {
		t.Fatalf("empty provider should disable cleanly: %v", err)
	}
	if p != nil {
		t.Error("disabled extractor should be nil")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: "anthropic"}, nil); err == nil {
		t.Error("unsupported provider should error")
	}
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}, nil); err == nil {
		t.Error("openai without API key should error")
	}
}

func TestNewProvider_OllamaDefaults(t *testing.T) {
	p, err := NewProvider(model.LLMConfig{Provider: "ollama"}, nil)
	if err != nil {
		t.Fatalf("ollama should not need a key: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("expected ollama provider, got %s", p.Name())
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("baptême de Pierre, fils de Jean Le Boucher")
	if !strings.Contains(prompt, "baptême de Pierre") {
		t.Error("prompt should carry the page text")
	}
	if !strings.Contains(prompt, `"mentions"`) {
		t.Error("prompt should show the expected JSON shape")
	}
}

func TestParseDataset_CodeFencedJSON(t *testing.T) {
	reply := "Here is the extraction:\n```json\n" +
		`{"mentions":[{"given":"Jean","family":"Le Boucher","attrs":{"title":"écuyer","lands":["Bréville"]}}]}` +
		"\n```"
	ds := parseDataset(reply, "page 3", nil)
	if len(ds.Mentions) != 1 {
		t.Fatalf("expected 1 mention, got %d", len(ds.Mentions))
	}
	m := ds.Mentions[0]
	if m.Given != "Jean" || m.Family != "Le Boucher" {
		t.Errorf("unexpected mention: %+v", m)
	}
	if m.Attrs.Source != "page 3" {
		t.Errorf("mention should carry the request source, got %q", m.Attrs.Source)
	}
}

func TestParseDataset_GarbledReplyDegrades(t *testing.T) {
	if ds := parseDataset("I could not process this text.", "p", nil); len(ds.Mentions) != 0 {
		t.Error("prose reply should degrade to an empty dataset")
	}
	if ds := parseDataset(`{"mentions": [{]}`, "p", nil); len(ds.Mentions) != 0 {
		t.Error("broken JSON should degrade to an empty dataset")
	}
}

func TestParseDataset_DropsFamilylessMentions(t *testing.T) {
	reply := `{"mentions":[{"given":"Jean","family":""},{"given":"Anne","family":"Varin"}]}`
	ds := parseDataset(reply, "p", nil)
	if len(ds.Mentions) != 1 || ds.Mentions[0].Family != "Varin" {
		t.Errorf("mention without family name should be dropped: %+v", ds.Mentions)
	}
}

func TestHostOf(t *testing.T) {
	if got := hostOf(""); got != "api.openai.com" {
		t.Errorf("default host wrong: %s", got)
	}
	if got := hostOf("http://localhost:11434/v1"); got != "localhost:11434" {
		t.Errorf("ollama host wrong: %s", got)
	}
}
