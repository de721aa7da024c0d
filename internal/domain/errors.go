package domain

import "errors"

// Error kinds shared by every step of a run. Wrap with fmt.Errorf("%w: ...")
// and test with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrFetch         = errors.New("fetch error")
	ErrParse         = errors.New("parse error")
	ErrDelivery      = errors.New("delivery error")
)
