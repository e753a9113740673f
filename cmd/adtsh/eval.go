package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/partite-ai/wasmadt/adt"
	"github.com/partite-ai/wasmadt/boundary"
)

var errSyntax = errors.New("syntax error")

// builtins are the callables a pipeline can name.
var builtins = map[string]boundary.Callable{
	"inc":     numeric(func(x float64) boundary.Value { return x + 1 }),
	"double":  numeric(func(x float64) boundary.Value { return x * 2 }),
	"gt3":     numeric(func(x float64) boundary.Value { return x > 3 }),
	"is_even": numeric(func(x float64) boundary.Value { return int64(x)%2 == 0 }),
	"is_null": boundary.Predicate(boundary.IsAbsent),
	"nullify": boundary.Transform(func(boundary.Value) boundary.Value { return boundary.Null }),
	"show":    boundary.Transform(func(v boundary.Value) boundary.Value { return boundary.Format(v) }),
	"fail":    boundary.Transform(func(v boundary.Value) boundary.Value { panic("fail called with " + boundary.Format(v)) }),
	"answer":  boundary.Producer(func() boundary.Value { return 42.0 }),
}

// numeric lifts a function over numbers; non-numeric arguments make the
// callable fail.
func numeric(fn func(float64) boundary.Value) boundary.Callable {
	return boundary.Func(func(ctx context.Context, args ...boundary.Value) (boundary.Value, error) {
		if len(args) == 0 {
			return nil, errors.New("missing argument")
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("not a number: %s", boundary.Format(args[0]))
		}
		return fn(x), nil
	})
}

// evaluate runs a pipeline such as
//
//	option 5 | map inc | unwrap_or 0
//
// and returns the final wrapper or value.
func evaluate(ctx context.Context, line string) (any, error) {
	stages := strings.Split(line, "|")
	head, err := tokenize(stages[0])
	if err != nil {
		return nil, err
	}
	if len(head) != 2 {
		return nil, fmt.Errorf("%w: expected 'option <value>' or 'result <value>'", errSyntax)
	}
	v, err := literal(head[1])
	if err != nil {
		return nil, err
	}
	var cur any
	switch head[0] {
	case "option":
		cur = adt.NewOption(v)
	case "result":
		cur = adt.NewResult(v)
	default:
		return nil, fmt.Errorf("%w: unknown constructor %q", errSyntax, head[0])
	}
	for _, stage := range stages[1:] {
		words, err := tokenize(stage)
		if err != nil {
			return nil, err
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: empty stage", errSyntax)
		}
		switch w := cur.(type) {
		case adt.Option:
			cur, err = applyOption(ctx, w, words[0], words[1:])
		case adt.Result:
			cur, err = applyResult(ctx, w, words[0], words[1:])
		default:
			err = fmt.Errorf("cannot apply %q to plain value %s", words[0], boundary.Format(cur))
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func applyOption(ctx context.Context, o adt.Option, op string, args []string) (any, error) {
	switch op {
	case "is_some":
		return o.IsSome(), arity(op, args, 0)
	case "is_none":
		return o.IsNone(), arity(op, args, 0)
	case "unwrap_or_default":
		return o.UnwrapOrDefault(), arity(op, args, 0)
	case "unwrap":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		return o.Unwrap()
	case "unwrap_or":
		d, err := oneLiteral(op, args)
		if err != nil {
			return nil, err
		}
		return o.UnwrapOr(d), nil
	}
	c, err := oneCallable(op, args)
	if err != nil {
		return nil, err
	}
	switch op {
	case "is_some_and":
		return o.IsSomeAnd(ctx, c), nil
	case "is_none_or":
		return o.IsNoneOr(ctx, c), nil
	case "map":
		return o.Map(ctx, c), nil
	case "unwrap_or_else":
		return o.UnwrapOrElse(ctx, c)
	}
	return nil, fmt.Errorf("%w: unknown option operation %q", errSyntax, op)
}

func applyResult(ctx context.Context, r adt.Result, op string, args []string) (any, error) {
	switch op {
	case "is_ok":
		return r.IsOk(), arity(op, args, 0)
	case "is_err":
		return r.IsErr(), arity(op, args, 0)
	case "ok":
		return r.Ok(), arity(op, args, 0)
	case "err":
		return r.Err(), arity(op, args, 0)
	case "unwrap":
		if err := arity(op, args, 0); err != nil {
			return nil, err
		}
		return r.Unwrap()
	case "unwrap_or":
		d, err := oneLiteral(op, args)
		if err != nil {
			return nil, err
		}
		return r.UnwrapOr(d), nil
	case "map_or":
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		d, err := literal(args[0])
		if err != nil {
			return nil, err
		}
		c, err := callable(args[1])
		if err != nil {
			return nil, err
		}
		return r.MapOr(ctx, d, c), nil
	case "map_err_or":
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		c, err := callable(args[0])
		if err != nil {
			return nil, err
		}
		d, err := literal(args[1])
		if err != nil {
			return nil, err
		}
		return r.MapErrOr(ctx, c, d), nil
	}
	c, err := oneCallable(op, args)
	if err != nil {
		return nil, err
	}
	switch op {
	case "is_ok_and":
		return r.IsOkAnd(ctx, c), nil
	case "is_err_and":
		return r.IsErrAnd(ctx, c), nil
	case "map_ok":
		return r.MapOk(ctx, c), nil
	case "map_err":
		return r.MapErr(ctx, c), nil
	}
	return nil, fmt.Errorf("%w: unknown result operation %q", errSyntax, op)
}

func arity(op string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", errSyntax, op, n, len(args))
	}
	return nil
}

func oneLiteral(op string, args []string) (boundary.Value, error) {
	if err := arity(op, args, 1); err != nil {
		return nil, err
	}
	return literal(args[0])
}

func oneCallable(op string, args []string) (boundary.Callable, error) {
	if err := arity(op, args, 1); err != nil {
		return nil, err
	}
	return callable(args[0])
}

func callable(name string) (boundary.Callable, error) {
	c, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown callable %q", name)
	}
	return c, nil
}

// literal parses null, undefined, booleans, numbers and quoted strings.
// Numbers are float64, as in a JavaScript host.
func literal(word string) (boundary.Value, error) {
	switch word {
	case "null":
		return boundary.Null, nil
	case "undefined":
		return boundary.Undefined, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if strings.HasPrefix(word, `"`) {
		s, err := strconv.Unquote(word)
		if err != nil {
			return nil, fmt.Errorf("%w: bad string %s", errSyntax, word)
		}
		return s, nil
	}
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad literal %q", errSyntax, word)
	}
	return f, nil
}

// tokenize splits on spaces, keeping double-quoted strings together.
func tokenize(s string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inQuote, escaped := false, false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated string", errSyntax)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words, nil
}

// render formats an evaluation result for display.
func render(v any) string {
	switch x := v.(type) {
	case adt.Option:
		return x.String()
	case adt.Result:
		return x.String()
	}
	return boundary.Format(v)
}
