// Package trace records where movecheck spends its time.
//
// Spans are opened per run (ScopeDriver), per phase of a file (ScopePass),
// per file (ScopeModule) and per checked function (ScopeNode). The level
// decides which scopes are kept:
//
//	movecheck check --trace=- --trace-level=detail ./sources
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parentID)
//	defer span.End("")
//
// A RingTracer keeps the last events in memory so that they can be dumped
// when the checker hits an internal error.
package trace
