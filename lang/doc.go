// Package lang implements a minimal configuration expression language:
// arithmetic and boolean leaf strings parsed into operator trees and
// evaluated against a pool of named values, some of which may be defined
// after they are referenced.
//
// # Grammar
//
// The grammar is intentionally small. Informally:
//
//	List       → Expression (',' Expression)*
//	Expression → '(' Expression ')' (op Expression)?
//	           | '-' Expression
//	           | func '(' Expression ')'
//	           | Terminal (op Expression)?
//	func       → abs | cos | exp | sin | sqrt | tan
//	op         → '+' | '-' | '*' | '/' | '^' | 'e'
//	Terminal   → bool | int | float | quoted string | name
//
// The infix 'e' operator is scientific notation: "2.9e2" evaluates to
// 290. There is no separate tokenizer; parsing partitions the input
// string at the earliest recognized operator symbol and restores
// precedence by rotating the freshly parsed right subtree into place
// (see attach). Equal-priority operators group left-associatively.
//
// # Forward references
//
// A [Registry] holds named values that may be referenced before they
// are defined. Names are subscribed as unresolved placeholders, so the
// parser can recognize them, and updated exactly once with a concrete
// value. A tree reports the names it uses through Node.UsedNames, and
// Node.Ready is true once every used name has a concrete value.
//
// The registry is an explicit object threaded through parse and
// evaluate calls. There is no package-level shared state; callers that
// process independent configuration sections either Clear the registry
// between sections or use separate registries.
//
// # External values
//
// Values produced outside this package (by a builder, or looked up
// through a [Context]) participate in evaluation when they implement
// [Arithmetic] for binary operators or [Mapper] for the unary math
// functions.
package lang
