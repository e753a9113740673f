package adt

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/partite-ai/wasmadt/boundary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultConstruct(t *testing.T) {
	for _, v := range present {
		r := NewResult(v)
		assert.True(t, r.IsOk(), "%#v", v)
		assert.False(t, r.IsErr(), "%#v", v)
	}
	for _, v := range []boundary.Value{boundary.Null, boundary.Undefined, nil} {
		r := NewResult(v)
		assert.True(t, r.IsErr())
		payload, ok := r.Get()
		assert.False(t, ok)
		assert.True(t, boundary.IsNull(payload), "constructed Err always holds null")
	}
}

func TestResultProjectionConsistency(t *testing.T) {
	values := append([]boundary.Value{boundary.Null, boundary.Undefined}, present...)
	for _, v := range values {
		r := NewResult(v)
		assert.Equal(t, r.IsOk(), r.Ok().IsSome(), "%#v", v)
		assert.True(t, r.Err().IsNone(), "Err payload of a constructed Result is null")
	}
	assert.Equal(t, 5, NewResult(5).Ok().UnwrapOr(0))
}

func TestResultProjectionWithPayload(t *testing.T) {
	r := Result{value: "boom"}
	errOpt := r.Err()
	assert.True(t, errOpt.IsSome())
	assert.Equal(t, "boom", errOpt.UnwrapOr(nil))
	assert.True(t, r.Ok().IsNone())

	// Projections re-apply NewOption to the payload.
	assert.True(t, Result{value: boundary.Undefined}.Err().IsNone())
	assert.True(t, Result{value: boundary.Null, ok: true}.Ok().IsNone())
	assert.True(t, NewResult("fine").Err().IsNone())
	assert.Equal(t, "fine", NewResult("fine").Ok().UnwrapOr(nil))
}

func TestResultNilObjectNeverPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wasmadt.adt")
	defer teardown()
	ctx := context.Background()

	require.NotPanics(t, func() {
		assert.False(t, NewResult(5).IsOkAnd(ctx, nilObj))
		assert.False(t, Result{value: "boom"}.IsErrAnd(ctx, nilObj))
	})

	var mapped Result
	require.NotPanics(t, func() {
		mapped = NewResult(nil).MapErrOr(ctx, throws, (*hostObj)(nil))
	})
	assert.True(t, mapped.IsOk())
	assert.Equal(t, (*hostObj)(nil), mapped.UnwrapOr(nil))
	assert.NotPanics(t, func() { assert.Equal(t, "Ok(<nil>)", mapped.String()) })
}

func TestResultPredicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wasmadt.adt")
	defer teardown()
	ctx := context.Background()

	assert.True(t, NewResult(5).IsOkAnd(ctx, gt3))
	assert.False(t, NewResult(1).IsOkAnd(ctx, gt3))
	assert.False(t, NewResult(boundary.Null).IsOkAnd(ctx, always))
	assert.False(t, NewResult(5).IsOkAnd(ctx, throws))
	assert.False(t, NewResult(5).IsOkAnd(ctx, notBool))

	isNull := boundary.Predicate(boundary.IsNull)
	assert.True(t, NewResult(nil).IsErrAnd(ctx, isNull))
	assert.False(t, NewResult(5).IsErrAnd(ctx, always))
	assert.False(t, NewResult(nil).IsErrAnd(ctx, throws))
	assert.False(t, NewResult(nil).IsErrAnd(ctx, rejects))
}

func TestResultMapOk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wasmadt.adt")
	defer teardown()
	ctx := context.Background()

	r := NewResult(5).MapOk(ctx, addOne)
	require.True(t, r.IsOk())
	assert.Equal(t, 6, r.Ok().UnwrapOr(0))

	assert.True(t, NewResult(boundary.Null).MapOk(ctx, addOne).IsErr())
	assert.True(t, NewResult(5).MapOk(ctx, throws).IsErr())
	assert.True(t, NewResult(5).MapOk(ctx, toNull).IsErr())

	// An Err payload produced by MapErr is dropped by MapOk.
	withPayload := Result{value: "lost"}
	mapped := withPayload.MapOk(ctx, addOne)
	payload, ok := mapped.Get()
	assert.False(t, ok)
	assert.True(t, boundary.IsNull(payload))
}

func TestResultMapErr(t *testing.T) {
	ctx := context.Background()
	describe := boundary.Transform(func(v boundary.Value) boundary.Value {
		return "failed: " + boundary.Format(v)
	})

	r := NewResult(nil).MapErr(ctx, describe)
	require.True(t, r.IsOk(), "the transformed error becomes an Ok payload")
	assert.Equal(t, "failed: null", r.Ok().UnwrapOr(""))

	assert.True(t, NewResult(5).MapErr(ctx, describe).IsErr())
	assert.True(t, NewResult(nil).MapErr(ctx, throws).IsErr())
	assert.True(t, NewResult(nil).MapErr(ctx, toNull).IsErr())
}

func TestResultMapOr(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, 6, NewResult(5).MapOr(ctx, 0, addOne))
	assert.Equal(t, 0, NewResult(nil).MapOr(ctx, 0, addOne))
	assert.True(t, boundary.IsNull(NewResult(5).MapOr(ctx, 0, throws)))
}

func TestResultMapErrOr(t *testing.T) {
	ctx := context.Background()
	recovered := boundary.Transform(func(boundary.Value) boundary.Value { return "recovered" })

	r := NewResult(nil).MapErrOr(ctx, recovered, "fallback")
	assert.Equal(t, "recovered", r.Ok().UnwrapOr(""))

	r = NewResult(nil).MapErrOr(ctx, throws, "fallback")
	assert.Equal(t, "fallback", r.Ok().UnwrapOr(""))

	r = NewResult(5).MapErrOr(ctx, recovered, "fallback")
	assert.Equal(t, "fallback", r.Ok().UnwrapOr(""), "Ok input yields the default")

	r = NewResult(5).MapErrOr(ctx, recovered, boundary.Null)
	assert.True(t, r.IsErr())
}

func TestResultAccessorsAreStable(t *testing.T) {
	ctx := context.Background()
	r := NewResult(5)
	for i := 0; i < 3; i++ {
		assert.True(t, r.IsOk())
		assert.True(t, r.IsOkAnd(ctx, gt3))
		assert.True(t, r.Ok().IsSome())
	}
	r.MapOk(ctx, addOne)
	assert.Equal(t, 5, r.UnwrapOr(0))
}

func TestResultUnwrap(t *testing.T) {
	v, err := NewResult(3).Unwrap()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = NewResult(nil).Unwrap()
	assert.ErrorIs(t, err, ErrUnwrapErr)
	assert.Equal(t, 1, NewResult(nil).UnwrapOr(1))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "Ok(5)", NewResult(5).String())
	assert.Equal(t, "Err(null)", NewResult(nil).String())
}
