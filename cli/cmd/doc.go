// Package cmd implements the cfgexpr subcommands.
package cmd
