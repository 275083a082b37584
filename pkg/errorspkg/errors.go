// Package errorspkg holds errors shared by the storage and transport layers.
package errorspkg

import "errors"

// ErrInternal replaces storage and driver failures before they reach clients.
var ErrInternal = errors.New("internal")
