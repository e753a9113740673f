/*
Package adt implements Option and Result wrappers for values handed over by a
dynamically-typed host.

Both types are immutable. Combinators that accept a boundary.Callable never
report the callable's failure through their own return values: a failing
predicate yields false and a failing transform yields an empty Option or an
Err(null) Result. Option.UnwrapOrElse is the single exception, since there is
no value it could substitute for a failed producer.

Construction folds the host's null and undefined sentinels into the empty
variant:

	NewOption(boundary.Null)   // None
	NewOption(false)           // Some(false)
	NewResult(boundary.Null)   // Err(null)
	NewResult(0)               // Ok(0)

A Result can only be constructed as Ok or as Err(null). Result.MapOk drops an
Err payload and Result.MapErr moves a transformed error into the Ok variant;
both follow from rebuilding the outcome with NewResult.
*/
package adt

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wasmadt.adt'.
func tracer() tracing.Trace {
	return tracing.Select("wasmadt.adt")
}
