package scanner

import "testing"

func TestAwaitInLoop_ForOfFlaggedOnce(t *testing.T) {
	src := `async function f(ids) {
  for (const id of ids) {
    await load(id);
    await save(id);
  }
}`
	report := scanSrc(t, src, NewRuleAwaitInLoop())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding per loop, got %+v", report.Findings)
	}
	if report.Findings[0].Position.Line != 3 {
		t.Fatalf("finding should point at the first await: %+v", report.Findings[0].Position)
	}
}

func TestAwaitInLoop_WhileFlagged(t *testing.T) {
	src := `async function f() {
  while (more()) {
    await step();
  }
}`
	report := scanSrc(t, src, NewRuleAwaitInLoop())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", report.Findings)
	}
}

func TestAwaitInLoop_NestedLoopsReportSeparately(t *testing.T) {
	src := `async function f(rows) {
  for (const row of rows) {
    for (const cell of row) {
      await render(cell);
    }
  }
}`
	report := scanSrc(t, src, NewRuleAwaitInLoop())
	if len(report.Findings) != 1 {
		t.Fatalf("only the inner loop owns the await: %+v", report.Findings)
	}
}

func TestAwaitInLoop_NestedAsyncCallback_NoFinding(t *testing.T) {
	src := `function f(ids) {
  for (const id of ids) {
    queue(async () => { await load(id); });
  }
}`
	report := scanSrc(t, src, NewRuleAwaitInLoop())
	if len(report.Findings) != 0 {
		t.Fatalf("await belongs to the nested callback scope: %+v", report.Findings)
	}
}

func TestAwaitInLoop_NoAwait_NoFinding(t *testing.T) {
	report := scanSrc(t, `async function f(xs) { for (const x of xs) { use(x); } }`, NewRuleAwaitInLoop())
	if len(report.Findings) != 0 {
		t.Fatalf("expected 0 findings, got %+v", report.Findings)
	}
}
