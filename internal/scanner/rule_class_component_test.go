package scanner

import "testing"

func TestClassComponent_ExtendsComponentFlagged(t *testing.T) {
	report := scanSrc(t, `class Foo extends Component { componentDidMount() {} }`,
		NewRuleClassComponent(), NewRuleLifecycleMethod())
	if len(report.Findings) != 2 {
		t.Fatalf("expected class-component + lifecycle-method, got %+v", report.Findings)
	}
	if report.Findings[0].RuleID != RuleClassComponentID || report.Findings[0].Severity != SeverityCritical {
		t.Fatalf("unexpected first finding: %+v", report.Findings[0])
	}
	if report.Findings[1].RuleID != RuleLifecycleMethodID || report.Findings[1].Severity != SeverityCritical {
		t.Fatalf("unexpected second finding: %+v", report.Findings[1])
	}
	// Both findings reference the same declaration.
	if report.Findings[0].Position.Line != report.Findings[1].Position.Line {
		t.Fatalf("findings should share the declaration line: %+v", report.Findings)
	}
}

func TestClassComponent_MemberExpressionBase(t *testing.T) {
	report := scanSrc(t, `class Panel extends React.Component {}`, NewRuleClassComponent())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", report.Findings)
	}
}

func TestClassComponent_UnknownBase_NoFinding(t *testing.T) {
	report := scanSrc(t, `class Repo extends BaseRepository {}`, NewRuleClassComponent())
	if len(report.Findings) != 0 {
		t.Fatalf("unknown base must not flag: %+v", report.Findings)
	}
}

func TestClassComponent_PlainClass_NoFinding(t *testing.T) {
	report := scanSrc(t, `class Util {}`, NewRuleClassComponent())
	if len(report.Findings) != 0 {
		t.Fatalf("plain class must not flag: %+v", report.Findings)
	}
}

func TestClassComponent_ExportedDefault_Flagged(t *testing.T) {
	report := scanSrc(t, `export default class App extends PureComponent {}`, NewRuleClassComponent())
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding for exported class, got %+v", report.Findings)
	}
}
