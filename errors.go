package mmcpack

import "errors"

var (
	ErrUnknownModMethod  = errors.New("unknown mod method")
	ErrMissingFilename   = errors.New("missing filename")
	ErrNoSource          = errors.New("no download source")
	ErrAmbiguousSource   = errors.New("ambiguous download source")
	ErrDuplicateFilename = errors.New("duplicate filename")
)
