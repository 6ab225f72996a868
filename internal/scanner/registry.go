package scanner

// DefaultRules returns the full rule catalog in stable order. Rules are
// constructed once at process start and never mutated afterwards.
func DefaultRules() []Rule {
	return []Rule{
		NewRuleAsyncWrapping(),
		NewRuleChain(),
		NewRuleAwaitInLoop(),
		NewRulePromiseExecutor(),
		NewRuleClassComponent(),
		NewRuleLifecycleMethod(),
		NewRuleUnawaitedConstructorCall(),
	}
}

// KnownRuleIDs returns the IDs of every catalog rule, for validating
// override configuration before a batch starts.
func KnownRuleIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, r := range DefaultRules() {
		ids[r.ID()] = true
	}
	return ids
}
