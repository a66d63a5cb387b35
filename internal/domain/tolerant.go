package domain

import "errors"

// Fallback configures how a single-value transform recovers from errors.
//
// Errors matching Catch (via errors.Is) are absorbed: the wrapped transform
// returns its input when PassThrough is set and Default otherwise. An empty
// Catch absorbs every error. Anything else is returned to the caller.
type Fallback[T any] struct {
	Catch       []error
	Default     T
	PassThrough bool

	// OnCatch, when set, observes every absorbed error.
	OnCatch func(in T, err error)
}

// Wrap returns fn guarded by the fallback policy.
func (fb Fallback[T]) Wrap(fn func(T) (T, error)) func(T) (T, error) {
	return func(in T) (T, error) {
		out, err := fn(in)
		if err == nil {
			return out, nil
		}
		if !fb.catches(err) {
			var zero T
			return zero, err
		}
		if fb.OnCatch != nil {
			fb.OnCatch(in, err)
		}
		if fb.PassThrough {
			return in, nil
		}
		return fb.Default, nil
	}
}

func (fb Fallback[T]) catches(err error) bool {
	if len(fb.Catch) == 0 {
		return true
	}
	for _, target := range fb.Catch {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
