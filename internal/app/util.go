package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/amisstea/js-async-audit/internal/config"
	"github.com/amisstea/js-async-audit/internal/jsparse"
	"github.com/amisstea/js-async-audit/internal/scanner"
)

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// buildRules selects the rules to run based on include/disable flags and
// the override configuration. If includeCSV is non-empty, only those rules
// run. Otherwise all catalog rules run except those disabled via
// disableCSV or the configuration file. The catalog's stable order is
// preserved either way.
func buildRules(cfg *config.File, includeCSV, disableCSV string) []scanner.Rule {
	catalog := scanner.DefaultRules()

	if strings.TrimSpace(includeCSV) != "" {
		included := map[string]struct{}{}
		for _, id := range splitAndTrim(includeCSV) {
			included[id] = struct{}{}
		}
		var out []scanner.Rule
		for _, r := range catalog {
			if _, on := included[r.ID()]; on {
				out = append(out, r)
			}
		}
		return out
	}

	disabled := map[string]struct{}{}
	for _, id := range splitAndTrim(disableCSV) {
		disabled[id] = struct{}{}
	}
	var out []scanner.Rule
	for _, r := range catalog {
		if _, off := disabled[r.ID()]; off {
			continue
		}
		if !cfg.Enabled(r.ID()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"build":        {},
	"coverage":     {},
}

// collectInputs expands files and directories into scan inputs. Directories
// are walked recursively; only files with a recognized JavaScript or
// TypeScript extension are read. Declaration files (.d.ts) are skipped
// since they contain no executable code.
func collectInputs(paths []string) ([]scanner.Input, error) {
	var inputs []scanner.Input
	seen := map[string]struct{}{}

	add := func(path string) error {
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, scanner.Input{Path: path, Source: src})
		return nil
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if err := add(root); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if _, skip := skipDirs[d.Name()]; skip {
					return filepath.SkipDir
				}
				return nil
			}
			if !isScannable(path) {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

func isScannable(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	return jsparse.IsSourceFile(path)
}
