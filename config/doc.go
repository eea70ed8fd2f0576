// Package config resolves configuration sections whose values are
// expressions, including forward references between entries.
//
// A [Section] is an ordered list of dotted-key entries with raw string
// values. A [Processor] parses each value, resolves references to
// interim entries (keys whose first segment starts with "_") in
// dependency order, and produces a nested result tree. Interim entries
// feed the expression registry and never appear in the output.
//
// Grouped interim entries carrying a "type" discriminator are assembled
// into domain values by a Builder, so a built value can be referenced
// by name inside later expressions:
//
//	test: source + 2.0
//	_source.type: gaussian
//	_source.mean: 0.5
//	_source.sd: 0.5
//	_source.scale: 10
package config
