package domain

import (
	"fmt"
	"strings"
)

// splitLocality splits "<locality>, <state>" into its two parts. The value
// must contain exactly one comma.
func splitLocality(s string) (string, string, error) {
	if s == "" {
		return "", "", ErrMissingValue
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q has %d parts", ErrMalformedLocality, s, len(parts))
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// ExtractLocality returns the locality of a "<locality>, <state>" value,
// e.g. "Cook County, IL" -> "Cook County".
func ExtractLocality(s string) (string, error) {
	locality, _, err := splitLocality(s)
	return locality, err
}

// ExpandState returns the full state name for the abbreviation in a
// "<locality>, <state>" value, e.g. "Chicago, IL" -> "Illinois".
func (t *Tables) ExpandState(s string) (string, error) {
	_, abbrev, err := splitLocality(s)
	if err != nil {
		return "", err
	}
	name, ok := t.StateNames[abbrev]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, abbrev)
	}
	return name, nil
}

// LocalityExtractor is ExtractLocality with split failures mapped to "".
func LocalityExtractor(onCatch func(string, error)) func(string) (string, error) {
	return Fallback[string]{
		Catch:   []error{ErrMissingValue, ErrMalformedLocality},
		OnCatch: onCatch,
	}.Wrap(ExtractLocality)
}

// StateNormalizer is ExpandState with split failures and unknown
// abbreviations passing the original value through.
func (t *Tables) StateNormalizer(onCatch func(string, error)) func(string) (string, error) {
	return Fallback[string]{
		Catch:       []error{ErrMissingValue, ErrMalformedLocality, ErrUnknownState},
		PassThrough: true,
		OnCatch:     onCatch,
	}.Wrap(t.ExpandState)
}
