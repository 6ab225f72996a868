package scanner

// This file declares the rule IDs the engine supports. IDs are stable and
// appear verbatim in reports and override configuration.

const (
	// Async control flow
	RuleAsyncWrappingID   = "async-wrapping"
	RuleChainID           = "chain"
	RuleAwaitInLoopID     = "await-in-loop"
	RulePromiseExecutorID = "promise-executor"

	// Class-based components
	RuleClassComponentID  = "class-component"
	RuleLifecycleMethodID = "lifecycle-method"

	// Constructors
	RuleUnawaitedConstructorCallID = "unawaited-constructor-call"

	// Reserved for rule evaluation failures; never part of the catalog.
	RuleEvaluationErrorID = "rule-evaluation-error"
)
