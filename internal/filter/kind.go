package filter

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Errors returned when building a Spec.
var (
	// ErrUnknownKind is returned for a kind name or value outside the closed set.
	ErrUnknownKind = errors.New("filter: unknown kind")

	// ErrInvalidRadius is returned for a radius below 1.
	ErrInvalidRadius = errors.New("filter: radius must be >= 1")

	// ErrInvalidSpec is returned when the zero Spec is used.
	ErrInvalidSpec = errors.New("filter: spec not initialized")
)

// Kind selects a smoothing kernel.
type Kind uint8

const (
	// KindGaussian is a separable Gaussian blur.
	KindGaussian Kind = iota + 1

	// KindMedian is a square-window median filter.
	KindMedian

	// KindBox is a square-window mean filter.
	KindBox
)

var kindNames = map[Kind]string{
	KindGaussian: "gaussian",
	KindMedian:   "median",
	KindBox:      "box",
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindGaussian, KindMedian, KindBox}
}

// String returns the lower-case kind name. The zero Kind (unset) prints
// as the empty string.
func (k Kind) String() string {
	if k == 0 {
		return ""
	}
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsValid reports whether k is one of the supported kinds.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind parses a kind name. Matching ignores case and surrounding
// whitespace; anything else is rejected with ErrUnknownKind.
func ParseKind(s string) (Kind, error) {
	// A Caser is stateful, so each call gets its own.
	name := cases.Fold().String(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want gaussian, median or box)", ErrUnknownKind, s)
}

// Set implements pflag.Value so kinds can be bound directly to CLI flags.
func (k *Kind) Set(s string) error {
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *Kind) Type() string {
	return "kind"
}
