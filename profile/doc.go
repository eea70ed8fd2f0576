// Package profile provides optional runtime profiling for the cfgexpr
// command.
//
// The package integrates [github.com/pkg/profile] behind the "pprof"
// build tag. When built without the tag (the default), every operation
// is a no-op with zero runtime overhead.
//
// With the tag, a profiler is configured through a [Config] and started
// with [Config.Start]:
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/profiles"),
//	).Start()
//	defer stop.Stop()
//
// Profile files are written to the configured directory with names
// matching the profiling mode (cpu.pprof, mem.pprof, and so on), ready
// for analysis with go tool pprof. Use [Modes] to retrieve the list of
// supported modes programmatically.
package profile
