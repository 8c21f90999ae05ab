// Package models defines the contract to the remote code-generation service.
package models

import "context"

// Request is one compiled generation exchange: a process-constant system
// instruction set plus the verbatim operator instruction.
type Request struct {
	System      string
	Instruction string
	// Temperature biases toward literal, repeatable code. Defaults low; see
	// config.DefaultTemperature.
	Temperature float32
}

// Provider is a service that turns a request into raw model text. One
// bounded synchronous call per turn; no automatic retry. A failed generation
// ends the turn and the operator re-issues the instruction.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
