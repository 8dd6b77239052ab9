package ecs

import (
	"errors"
	"fmt"
)

// Capacity errors are fatal: the World panics with an error wrapping one of
// these. Contract violations panic the same way on the hot path; the Try*
// variants return them instead.
var (
	ErrEntityCapacity    = errors.New("ecs: too many entities")
	ErrComponentCapacity = errors.New("ecs: too many component types")
	ErrNullEntity        = errors.New("ecs: null entity")
	ErrNotAlive          = errors.New("ecs: entity is not alive")
	ErrMissingComponent  = errors.New("ecs: missing component")
)

// fail panics with err annotated by a formatted message.
func fail(err error, format string, args ...any) {
	panic(fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err))
}
