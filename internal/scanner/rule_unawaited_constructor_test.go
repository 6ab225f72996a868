package scanner

import "testing"

func TestUnawaitedCtor_AsyncOwnMethodFlagged(t *testing.T) {
	src := `class Store {
  constructor() {
    this.refresh();
  }
  async refresh() {}
}`
	report := scanSrc(t, src, NewRuleUnawaitedConstructorCall())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", report.Findings)
	}
	f := report.Findings[0]
	if f.RuleID != RuleUnawaitedConstructorCallID || f.Severity != SeverityHigh {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if f.Position.Line != 3 {
		t.Fatalf("finding should sit on the call statement: %+v", f.Position)
	}
}

func TestUnawaitedCtor_VoidMarkerExempt(t *testing.T) {
	src := `class Store {
  constructor() {
    void this.refresh();
  }
  async refresh() {}
}`
	report := scanSrc(t, src, NewRuleUnawaitedConstructorCall())
	if len(report.Findings) != 0 {
		t.Fatalf("void marks acknowledged fire-and-forget: %+v", report.Findings)
	}
}

func TestUnawaitedCtor_FetchFlagged(t *testing.T) {
	src := `class Loader {
  constructor(url) {
    fetch(url);
  }
}`
	report := scanSrc(t, src, NewRuleUnawaitedConstructorCall())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding for bare fetch, got %+v", report.Findings)
	}
}

func TestUnawaitedCtor_AsyncSuffixFlagged(t *testing.T) {
	src := `class C {
  constructor(api) {
    api.warmCacheAsync();
  }
}`
	report := scanSrc(t, src, NewRuleUnawaitedConstructorCall())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding for Async-suffixed callee, got %+v", report.Findings)
	}
}

func TestUnawaitedCtor_SyncOwnMethod_NoFinding(t *testing.T) {
	src := `class C {
  constructor() {
    this.setup();
  }
  setup() {}
}`
	report := scanSrc(t, src, NewRuleUnawaitedConstructorCall())
	if len(report.Findings) != 0 {
		t.Fatalf("sync method call is fine: %+v", report.Findings)
	}
}

func TestUnawaitedCtor_AssignedResult_NoFinding(t *testing.T) {
	src := `class C {
  constructor() {
    this.pending = this.refresh();
  }
  async refresh() {}
}`
	report := scanSrc(t, src, NewRuleUnawaitedConstructorCall())
	if len(report.Findings) != 0 {
		t.Fatalf("stored promise is an acknowledged handoff: %+v", report.Findings)
	}
}
