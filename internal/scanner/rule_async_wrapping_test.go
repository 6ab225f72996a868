package scanner

import "testing"

func TestAsyncWrapping_ResolveReturnFlagged(t *testing.T) {
	report := scanSrc(t, `async function f() { return Promise.resolve(5); }`, NewRuleAsyncWrapping())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", report.Findings)
	}
	f := report.Findings[0]
	if f.RuleID != RuleAsyncWrappingID || f.Severity != SeverityMedium {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestAsyncWrapping_RejectThrowFlagged(t *testing.T) {
	report := scanSrc(t, `async function f() { throw Promise.reject(new Error("no")); }`, NewRuleAsyncWrapping())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", report.Findings)
	}
}

func TestAsyncWrapping_PlainReturn_NoFinding(t *testing.T) {
	report := scanSrc(t, `async function f() { return 5; }`, NewRuleAsyncWrapping())
	if len(report.Findings) != 0 {
		t.Fatalf("expected 0 findings, got %+v", report.Findings)
	}
}

func TestAsyncWrapping_SyncFunction_NoFinding(t *testing.T) {
	report := scanSrc(t, `function f() { return Promise.resolve(5); }`, NewRuleAsyncWrapping())
	if len(report.Findings) != 0 {
		t.Fatalf("sync function may return promises explicitly: %+v", report.Findings)
	}
}

func TestAsyncWrapping_NestedSyncFunction_NoFinding(t *testing.T) {
	src := `async function f() {
  const inner = function () { return Promise.resolve(1); };
  return inner();
}`
	report := scanSrc(t, src, NewRuleAsyncWrapping())
	if len(report.Findings) != 0 {
		t.Fatalf("return belongs to the nested sync scope: %+v", report.Findings)
	}
}

func TestAsyncWrapping_AsyncMethod_Flagged(t *testing.T) {
	src := `class S { async load() { return Promise.resolve([]); } }`
	report := scanSrc(t, src, NewRuleAsyncWrapping())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding for async method, got %+v", report.Findings)
	}
}

func TestAsyncWrapping_AsyncArrow_Flagged(t *testing.T) {
	src := `const f = async () => { return Promise.reject(new Error("x")); };`
	report := scanSrc(t, src, NewRuleAsyncWrapping())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding for async arrow, got %+v", report.Findings)
	}
}
