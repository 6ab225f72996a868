// Package main provides the entry point for the js-async-audit CLI.
//
// js-async-audit statically scans JavaScript and TypeScript sources for
// async anti-patterns: redundant promise wrapping, promise chains inside
// async functions, legacy class components, and lifecycle-driven data
// fetching.
//
// Usage:
//
//	js-async-audit scan <path>...
//
// See --help for all available options.
package main

// main is the entry point for js-async-audit.
func main() {
	Execute()
}
