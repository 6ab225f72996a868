package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amisstea/js-async-audit/internal/config"
	"github.com/amisstea/js-async-audit/internal/scanner"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "const x = 1;")
	writeFile(t, dir, "sub/b.tsx", "export const y = 2;")
	writeFile(t, dir, "sub/types.d.ts", "declare const z: number;")
	writeFile(t, dir, "node_modules/dep/index.js", "module.exports = {};")
	writeFile(t, dir, "README.md", "# readme")

	inputs, err := collectInputs([]string{dir})
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	if len(inputs) != 2 {
		paths := make([]string, 0, len(inputs))
		for _, in := range inputs {
			paths = append(paths, in.Path)
		}
		t.Fatalf("collectInputs = %v, want a.js and sub/b.tsx only", paths)
	}
}

func TestCollectInputs_ExplicitFileAndDedup(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", "const x = 1;")

	inputs, err := collectInputs([]string{path, dir})
	if err != nil {
		t.Fatalf("collectInputs: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("collectInputs len = %d, want 1 (deduplicated)", len(inputs))
	}
}

func TestCollectInputs_MissingPath(t *testing.T) {
	if _, err := collectInputs([]string{filepath.Join(t.TempDir(), "absent")}); err == nil {
		t.Fatal("collectInputs should fail on a missing path")
	}
}

func TestBuildRules_IncludeAndDisable(t *testing.T) {
	cfg := config.Default()

	all := buildRules(cfg, "", "")
	if len(all) != len(scanner.DefaultRules()) {
		t.Errorf("default build = %d rules, want the full catalog", len(all))
	}

	only := buildRules(cfg, scanner.RuleChainID+", "+scanner.RuleClassComponentID, "")
	if len(only) != 2 {
		t.Errorf("include build = %d rules, want 2", len(only))
	}

	without := buildRules(cfg, "", scanner.RuleChainID)
	for _, r := range without {
		if r.ID() == scanner.RuleChainID {
			t.Errorf("disabled rule %s still present", scanner.RuleChainID)
		}
	}
	if len(without) != len(all)-1 {
		t.Errorf("disable build = %d rules, want %d", len(without), len(all)-1)
	}
}

func TestRun_BlockingFindings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "list.jsx", `
class UserList extends Component {
  componentDidMount() {
    this.load();
  }
}
`)

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		Paths:  []string{dir},
		Format: "text",
		Output: &out,
		FailOn: scanner.SeverityHigh,
	})
	if !errors.Is(err, ErrBlockingFindings) {
		t.Fatalf("Run err = %v, want ErrBlockingFindings", err)
	}
	if !strings.Contains(out.String(), "class-component") {
		t.Errorf("report missing class-component finding:\n%s", out.String())
	}
}

func TestRun_CleanSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.js", `
async function load() {
  const res = await fetch("/api");
  return res.json();
}
`)

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		Paths:  []string{dir},
		Format: "json",
		Output: &out,
		FailOn: scanner.SeverityHigh,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_ParseErrorDoesNotBlock(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.js", "function f( {")

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		Paths:  []string{dir},
		Format: "text",
		Output: &out,
		FailOn: scanner.SeverityHigh,
	})
	if err != nil {
		t.Fatalf("Run with only a parse failure should not error, got %v", err)
	}
	if !strings.Contains(out.String(), "syntax error") {
		t.Errorf("report should mention the parse failure:\n%s", out.String())
	}
}

func TestRun_InvalidConfigFailsBeforeScanning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "const x = 1;")
	cfgPath := writeFile(t, dir, "audit.yaml", "rules:\n  bogus-rule:\n    enabled: false\n")

	err := Run(context.Background(), Options{
		Paths:      []string{dir},
		ConfigPath: cfgPath,
		Output:     &bytes.Buffer{},
		FailOn:     scanner.SeverityHigh,
	})
	if !errors.Is(err, config.ErrUnknownRule) {
		t.Fatalf("Run err = %v, want ErrUnknownRule", err)
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "const x = 1;")
	histDir := filepath.Join(dir, "history")

	err := Run(context.Background(), Options{
		Paths:      []string{dir},
		Output:     &bytes.Buffer{},
		FailOn:     scanner.SeverityHigh,
		HistoryDir: histDir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(histDir, "history.db")); err != nil {
		t.Errorf("history database not created: %v", err)
	}
}
