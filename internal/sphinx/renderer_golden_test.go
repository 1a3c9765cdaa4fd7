package sphinx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/scan"
)

func goldenTree() fstest.MapFS {
	src := []byte("function out = f(in)\nend\n")
	return fstest.MapFS{
		"entanglement_theory/negativity.m":        {Data: src},
		"entanglement_theory/partial_transpose.m": {Data: src},
		"entanglement_theory/measures/rains.m":    {Data: src},
		"entanglement_theory/measures/squashed.m": {Data: src},
		"entanglement_theory/Fawzi/fawzi_sdp.m":   {Data: src},
		"static_coherence/l1_norm.m":              {Data: src},
		"static_coherence/testing/test_l1.m":      {Data: src},
		"utils/ket.m":                             {Data: src},
		"utils/__pycache__/stale.m":               {Data: src},
		"docs/api/generate.m":                     {Data: src},
		"README.md":                               {Data: []byte("# QRLab\n")},
	}
}

func TestRendererGolden_Tree(t *testing.T) {
	cfg := config.Default()
	entries, err := scan.New(goldenTree(), scan.OptionsFromConfig(cfg)).Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	r, err := NewRenderer(cfg)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	docs, err := r.RenderAll(entries)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{
		IndexName,
		"entanglement_theory.rst",
		"entanglement_theory.measures.rst",
		"static_coherence.rst",
		"utils.rst",
		ConfName,
	}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, doc := range docs {
		if doc.Name != want[i] {
			t.Errorf("document %d: expected %s, got %s", i, want[i], doc.Name)
			continue
		}
		compareGolden(t, doc)
	}
}

func compareGolden(t *testing.T, doc Document) {
	t.Helper()
	golden := filepath.Join("testdata", "golden", doc.Name)
	// #nosec G304 - test file
	want, err := os.ReadFile(golden)
	if err != nil && !(os.IsNotExist(err) && os.Getenv("UPDATE_GOLDEN") == "1") {
		t.Fatalf("read golden: %v", err)
	}
	if bytes.Equal(want, doc.Content) {
		return
	}
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.WriteFile(golden, doc.Content, 0o600); err != nil {
			t.Fatalf("update golden: %v", err)
		}
		return
	}
	t.Errorf("%s mismatch; run UPDATE_GOLDEN=1 go test ./internal/sphinx -run TestRendererGolden to accept\n--- want ---\n%s\n--- got ---\n%s",
		doc.Name, want, doc.Content)
}
