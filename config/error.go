package config

import "github.com/mhollis/cfgexpr/lang"

// Predefined errors (sentinel values).
var (
	ErrUnresolvedDependency = lang.NewError("unresolved dependency")
	ErrNoBuilder            = lang.NewError("no builder configured for typed group")
	ErrInvalidDocument      = lang.NewError("invalid configuration document")
)
