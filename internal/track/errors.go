package track

import "errors"

// Error kinds for the pipeline. Extraction and normalization failures keep
// their own sentinels (extractor.ErrExtract, price.ErrInvalidPrice);
// callers branch on all of them with errors.Is instead of matching message
// text.
var (
	ErrValidation    = errors.New("invalid input")
	ErrAuthorization = errors.New("unauthorized")
	ErrPersistence   = errors.New("storage failure")
)
