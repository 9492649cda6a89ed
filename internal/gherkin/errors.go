package gherkin

import "errors"

var (
	// ErrParse indicates a document could not be parsed; the document is skipped.
	ErrParse = errors.New("feature parse failed")

	// ErrNoFeature indicates the document parsed but declares no Feature block.
	ErrNoFeature = errors.New("document has no feature")
)
