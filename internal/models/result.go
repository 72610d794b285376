package models

// Result holds the outcome of a fallible domain operation: either a value
// or a typed error, never both. Expected business failures travel through
// Result; infrastructure faults stay on the ordinary error channel.
type Result[V, E any] struct {
	value V
	err   E
	ok    bool
}

// Success builds a successful Result carrying value.
func Success[V, E any](value V) Result[V, E] {
	return Result[V, E]{value: value, ok: true}
}

// Failure builds a failed Result carrying err.
func Failure[V, E any](err E) Result[V, E] {
	return Result[V, E]{err: err}
}

func (r Result[V, E]) IsSuccess() bool { return r.ok }

// Value returns the success payload. Meaningful only when IsSuccess is true.
func (r Result[V, E]) Value() V { return r.value }

// Err returns the error payload. Meaningful only when IsSuccess is false.
func (r Result[V, E]) Err() E { return r.err }

// Match dispatches to exactly one handler based on the outcome.
func (r Result[V, E]) Match(onSuccess func(V), onError func(E)) {
	if r.ok {
		onSuccess(r.value)
		return
	}
	onError(r.err)
}

// MatchResult dispatches to exactly one handler and returns its output.
// This is the sanctioned way for callers to destructure a Result; it makes
// forgetting the error branch a compile error. A free function because Go
// methods cannot introduce the mapped type parameter.
func MatchResult[V, E, T any](r Result[V, E], onSuccess func(V) T, onError func(E) T) T {
	if r.ok {
		return onSuccess(r.value)
	}
	return onError(r.err)
}
