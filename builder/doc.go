// Package builder assembles typed domain values from grouped
// configuration properties.
//
// A [Factory] holds a closed table of builder constructors keyed by
// type name. Grouped entries whose discriminator names a registered
// type are assembled into a value: scalars for "constant", spatial
// [Field] values for "gaussian". Fields implement the expression
// arithmetic interfaces, so a built field can appear as an operand in
// later expressions and combine pointwise with scalars and other
// fields.
package builder
