// Package trace records where llvm-ads spends its time.
//
// Enable tracing from the command line:
//
//	llvm-ads --trace=- --trace-level=detail point.ll point.ads
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only spans that ended with a failure
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Per-module events
//   - LevelDebug: Every emitted declaration
//
// # Context Propagation
//
// Tracers and the active span travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "emit")
//	defer span.End("")
package trace
