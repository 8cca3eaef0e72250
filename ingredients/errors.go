package ingredients

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPercent marks a group header whose percent could not be
	// converted. The group is dropped and the rest of the label still parses.
	ErrMalformedPercent = errors.New("malformed percent")

	// ErrExternalExtraction marks a failed call to the structured-extraction
	// service, including responses that do not match the group schema.
	ErrExternalExtraction = errors.New("external extraction failed")
)

// PercentError reports the group and token that failed percent conversion.
type PercentError struct {
	Group string
	Token string
	Err   error
}

func (e *PercentError) Error() string {
	return fmt.Sprintf("group %q: %v %q: %v", e.Group, ErrMalformedPercent, e.Token, e.Err)
}

func (e *PercentError) Unwrap() []error {
	return []error{ErrMalformedPercent, e.Err}
}
