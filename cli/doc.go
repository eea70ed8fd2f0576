// Package cli implements the cfgexpr command-line interface.
//
// The command tree is declared with kong struct tags on [CLI], with
// logging and profiling flags in embedded groups shared by every
// subcommand.
package cli
