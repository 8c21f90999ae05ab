//go:build !windows

package com

import (
	"errors"

	"cadagent/pkg/host"
)

// Attach always fails off Windows: the host object model is only reachable
// through COM.
func Attach() (host.Application, error) {
	return nil, errors.New("CATIA attachment requires a Windows session (COM)")
}
