package route

import (
	"github.com/xy-planning-network/signpost"
)

// A Policy decides what a Builder does with a descriptor it cannot bind.
type Policy int

const (
	// FailFast aborts the bind on the first failing descriptor.
	FailFast Policy = iota

	// SkipAndWarn skips descriptors whose module fails to load or has no usable View.
	SkipAndWarn
)

var _ signpost.Enumerable = Policy(0)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case SkipAndWarn:
		return "skip-and-warn"
	default:
		return "unknown"
	}
}

func (p Policy) Valid() error {
	switch p {
	case FailFast, SkipAndWarn:
		return nil
	default:
		return signpost.ErrNotValid
	}
}
