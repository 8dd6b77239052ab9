//go:build ecsdebug

package ecs

// debugChecks enables the expensive invariant audits.
const debugChecks = true
