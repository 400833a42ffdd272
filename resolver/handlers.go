package resolver

import (
	"fmt"

	"github.com/erraggy/oasresolve/oaserrors"
)

// RecursionLimitHandler supplies the value for a reference whose target is
// already active limit times on the resolution path. ref is the absolute
// reference and stack the active keys including the one that hit the limit.
// Returning an error aborts Resolve.
type RecursionLimitHandler func(limit int, ref string, stack []RecursionKey) (any, error)

// DefaultRecursionLimitHandler fails with a ResolutionError.
func DefaultRecursionLimitHandler(limit int, ref string, _ []RecursionKey) (any, error) {
	return nil, &oaserrors.ResolutionError{
		Ref:     ref,
		Kind:    oaserrors.KindRecursion,
		Message: fmt.Sprintf("Recursion reached limit of %d trying to resolve %q!", limit, ref),
	}
}

// NullRecursionLimitHandler replaces the reference with null.
func NullRecursionLimitHandler(int, string, []RecursionKey) (any, error) {
	return nil, nil
}
