package history

import (
	"context"
	"errors"
	"testing"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleBatch() *scanner.Batch {
	return &scanner.Batch{
		Reports: map[string]*scanner.Report{
			"a.js": {
				Path: "a.js",
				Findings: []scanner.Finding{
					{
						RuleID:   scanner.RuleChainID,
						Severity: scanner.SeverityHigh,
						Message:  "promise chain inside async function",
						Position: scanner.Position{Filename: "a.js", Line: 2, Column: 3},
					},
					{
						RuleID:   scanner.RuleAsyncWrappingID,
						Severity: scanner.SeverityMedium,
						Message:  "redundant promise wrapping",
						Position: scanner.Position{Filename: "a.js", Line: 5, Column: 3},
					},
				},
				Counts: map[scanner.Severity]int{
					scanner.SeverityHigh:   1,
					scanner.SeverityMedium: 1,
				},
			},
			"b.js": {Path: "b.js", Counts: map[scanner.Severity]int{}},
		},
		Errors: map[string]error{
			"c.js": errors.New("c.js:1:1: syntax error"),
		},
	}
}

func TestRecordAndRecentRuns(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	runID, err := s.RecordRun(ctx, sampleBatch())
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if _, err := s.RecordRun(ctx, sampleBatch()); err != nil {
		t.Fatalf("RecordRun second: %v", err)
	}

	runs, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns len = %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].ID <= runs[1].ID {
		t.Errorf("runs not ordered newest first: %d then %d", runs[0].ID, runs[1].ID)
	}

	latest := runs[1]
	if latest.ID != runID {
		t.Fatalf("first recorded run id = %d, want %d", latest.ID, runID)
	}
	if latest.FilesScanned != 2 || latest.FilesFailed != 1 {
		t.Errorf("files = %d/%d, want 2/1", latest.FilesScanned, latest.FilesFailed)
	}
	if latest.High != 1 || latest.Medium != 1 || latest.Critical != 0 {
		t.Errorf("counts = critical %d high %d medium %d", latest.Critical, latest.High, latest.Medium)
	}
	if !latest.Blocking {
		t.Errorf("run with a HIGH finding should be blocking")
	}
}

func TestRuleCounts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	runID, err := s.RecordRun(ctx, sampleBatch())
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	counts, err := s.RuleCounts(ctx, runID)
	if err != nil {
		t.Fatalf("RuleCounts: %v", err)
	}
	if counts[scanner.RuleChainID] != 1 || counts[scanner.RuleAsyncWrappingID] != 1 {
		t.Errorf("RuleCounts = %v", counts)
	}
}

func TestRecentRuns_Empty(t *testing.T) {
	s := openStore(t)
	runs, err := s.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("RecentRuns on empty store = %d rows", len(runs))
	}
}
