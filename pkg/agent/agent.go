// Package agent drives one operator turn through the pipeline: prompt
// compilation, generation, extraction, the confirmation gate, and execution.
// State is process-lifetime only; nothing here persists across runs.
package agent

import (
	"context"
	"errors"
	"log/slog"

	"cadagent/pkg/binder"
	"cadagent/pkg/config"
	"cadagent/pkg/extract"
	"cadagent/pkg/host"
	"cadagent/pkg/models"
	"cadagent/pkg/prompt"
	"cadagent/pkg/sandbox"
)

// Status classifies how a turn ended.
type Status int

const (
	StatusSuccess Status = iota
	StatusCancelled
	StatusConfigRejected
	StatusGenerationFailed
	StatusExtractionFailed
	StatusExecutionFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCancelled:
		return "cancelled"
	case StatusConfigRejected:
		return "configuration rejected"
	case StatusGenerationFailed:
		return "generation failed"
	case StatusExtractionFailed:
		return "no code found"
	case StatusExecutionFailed:
		return "execution failed"
	}
	return "unknown"
}

// Turn is one operator instruction with its generated candidate script.
// Either a script is present and executable, or the turn already terminated
// without side effects.
type Turn struct {
	Instruction string
	Raw         string
	Script      string
}

// Outcome is the operator-facing result of one turn.
type Outcome struct {
	Status     Status
	Turn       *Turn
	Output     string // script Log output
	Diagnostic string // fault trace on execution failure
	Err        error  // typed error for config/generation failures
}

// ConfirmFunc gates execution on the operator: it receives the candidate
// script and reports whether to run it.
type ConfirmFunc func(script string) bool

// Agent wires the pipeline around a single attached host session.
type Agent struct {
	App        host.Application
	Provider   models.Provider
	Config     *config.Config
	Runner     *sandbox.Runner
	Transcript *Transcript
}

// New builds an Agent for one interactive session.
func New(app host.Application, provider models.Provider, cfg *config.Config, runner *sandbox.Runner) *Agent {
	return &Agent{
		App:        app,
		Provider:   provider,
		Config:     cfg,
		Runner:     runner,
		Transcript: NewTranscript(),
	}
}

// Prepare covers the generating phase of a turn: credential check, prompt
// compilation, the generation call, and extraction. It returns either a turn
// ready for confirmation or the outcome that ended the turn early.
func (a *Agent) Prepare(ctx context.Context, instruction string) (*Turn, *Outcome) {
	a.Transcript.Append(KindInstruction, instruction)

	if err := a.Config.Credential(); err != nil {
		slog.Warn("Turn rejected", "error", err)
		return nil, &Outcome{Status: StatusConfigRejected, Err: err}
	}

	slog.Info("Calling model", "instructionLen", len(instruction))
	raw, err := a.Provider.Generate(ctx, prompt.Compile(instruction, a.Config.Temperature))
	if err != nil {
		slog.Error("Generation failed", "error", err)
		return nil, &Outcome{Status: StatusGenerationFailed, Err: err}
	}

	turn := &Turn{Instruction: instruction, Raw: raw}
	script, ok := extract.Script(raw)
	if !ok {
		slog.Warn("No code found in model response", "rawLen", len(raw))
		a.Transcript.Append(KindRaw, raw)
		return nil, &Outcome{Status: StatusExtractionFailed, Turn: turn}
	}

	turn.Script = script
	a.Transcript.Append(KindScript, script)
	return turn, nil
}

// Execute covers the executing phase: a fresh handle-set resolution followed
// by the sandboxed run. Handles are never reused from a previous turn.
func (a *Agent) Execute(ctx context.Context, turn *Turn) Outcome {
	handles, err := binder.Resolve(a.App)
	if err != nil {
		slog.Error("Context resolution failed", "error", err)
		return a.finish(Outcome{Status: StatusExecutionFailed, Turn: turn, Diagnostic: err.Error()})
	}

	slog.Info("Executing script", "scriptLen", len(turn.Script), "partCapable", handles.PartCapable)
	res := a.Runner.Run(ctx, turn.Script, handles)
	if !res.OK() {
		slog.Error("Execution failed", "fault", res.Failure.Message)
		return a.finish(Outcome{
			Status:     StatusExecutionFailed,
			Turn:       turn,
			Output:     res.Output,
			Diagnostic: res.Failure.Message + "\n" + res.Failure.Trace,
		})
	}

	return a.finish(Outcome{Status: StatusSuccess, Turn: turn, Output: res.Output})
}

// Cancel records an operator decline. The sandbox is never touched.
func (a *Agent) Cancel(turn *Turn) Outcome {
	slog.Info("Execution declined")
	return a.finish(Outcome{Status: StatusCancelled, Turn: turn})
}

// RunTurn composes both phases around the confirmation gate. Declining never
// reaches the sandbox.
func (a *Agent) RunTurn(ctx context.Context, instruction string, confirm ConfirmFunc) Outcome {
	turn, early := a.Prepare(ctx, instruction)
	if early != nil {
		return a.finish(*early)
	}
	if !confirm(turn.Script) {
		return a.Cancel(turn)
	}
	return a.Execute(ctx, turn)
}

func (a *Agent) finish(o Outcome) Outcome {
	text := o.Status.String()
	if o.Err != nil {
		text += ": " + o.Err.Error()
	}
	a.Transcript.Append(KindOutcome, text)
	return o
}

// IsFatal reports whether an error must terminate the whole session rather
// than the turn. Only attachment failures qualify.
func IsFatal(err error) bool {
	var ae *binder.AttachmentError
	return errors.As(err, &ae)
}
