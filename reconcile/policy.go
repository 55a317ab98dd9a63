package reconcile

import (
	"strings"

	"github.com/pkg/errors"
)

// Policy selects how per-frame boxes are reconciled.
type Policy int

const (
	// PolicyIndependent crops every frame to its own box.
	PolicyIndependent Policy = iota
	// PolicyUnion crops every frame to the union of all boxes.
	PolicyUnion
	// PolicyFixed grows every box around its own center to the largest
	// width and height in the sequence.
	PolicyFixed
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown policy")

func (p Policy) String() string {
	switch p {
	case PolicyUnion:
		return "union"
	case PolicyFixed:
		return "fixed"
	default:
		return "independent"
	}
}

// ParsePolicy maps a policy name to its Policy. The empty string selects
// PolicyIndependent.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "independent":
		return PolicyIndependent, nil
	case "union":
		return PolicyUnion, nil
	case "fixed":
		return PolicyFixed, nil
	}
	return PolicyIndependent, errors.Wrapf(ErrUnknownPolicy, "%q", s)
}

// Select returns the policy to apply for a run.
//
// Fixed wins when the destination stores every frame in one file and so needs
// them to share a size. Otherwise fixed wins over union, and independent is
// the default.
func Select(uniform, union, fixed bool) Policy {
	switch {
	case uniform || fixed:
		return PolicyFixed
	case union:
		return PolicyUnion
	}
	return PolicyIndependent
}

// Resolve forces PolicyFixed when the destination requires uniform frame
// sizes and returns requested otherwise.
func Resolve(uniform bool, requested Policy) Policy {
	if uniform {
		return PolicyFixed
	}
	return requested
}
