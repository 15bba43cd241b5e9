package ml

import "errors"

// ErrNoNose is returned when the detector finds no nose in the image.
// The admission engine falls back to embedding the whole image.
var ErrNoNose = errors.New("no nose detected in image")
