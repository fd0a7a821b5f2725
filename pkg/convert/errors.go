package convert

import "errors"

var ErrInvalidPath = errors.New("invalid path")
var ErrMissingAsset = errors.New("missing asset")
var ErrNoSequences = errors.New("did not find any sequences")
var ErrNoFrames = errors.New("did not find any frames")
var ErrUnknownImageFormat = errors.New("unknown image format")
