// Package sandbox executes one candidate script against a per-run binding
// context. The script is interpreted; the binding context is the only
// capability surface it can reach, and every fault it raises is captured as a
// structured result instead of escaping the turn.
package sandbox

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"cadagent/pkg/binder"
	"cadagent/pkg/heuristics"
	"cadagent/pkg/host"
)

// Failure describes a failed execution: the fault and the full trace for
// operator-facing diagnostics.
type Failure struct {
	Message string
	Trace   string
}

func (f *Failure) Error() string { return f.Message }

// Result is the outcome of one execution. There is no rollback: on failure
// the host state reflects whatever mutations already committed.
type Result struct {
	// Output is the text the script emitted through Log.
	Output  string
	Failure *Failure
}

// OK reports whether the execution completed without a fault.
func (r Result) OK() bool { return r.Failure == nil }

// Runner interprets scripts with the session's heuristics bound alongside
// the handle set.
type Runner struct {
	Heuristics *heuristics.Heuristics
}

// New builds a Runner around a helper set.
func New(h *heuristics.Heuristics) *Runner {
	return &Runner{Heuristics: h}
}

// Run executes the script against a binding context assembled from the given
// handle set. Handles must be freshly resolved for this run.
func (r *Runner) Run(ctx context.Context, script string, h *binder.Handles) Result {
	var out output

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return failed("loading interpreter symbols: " + err.Error())
	}
	if err := i.Use(r.exports(h, &out)); err != nil {
		return failed("binding session context: " + err.Error())
	}

	if _, err := i.Eval(wrap(script)); err != nil {
		return failed("script rejected: " + err.Error())
	}

	v, err := i.Eval("main.Run")
	if err != nil {
		return failed("script entry not found: " + err.Error())
	}
	run, ok := v.Interface().(func())
	if !ok {
		return failed("script entry has unexpected shape")
	}

	done := make(chan *Failure, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- &Failure{
					Message: faultMessage(rec),
					Trace:   string(debug.Stack()),
				}
				return
			}
			done <- nil
		}()
		run()
	}()

	select {
	case f := <-done:
		return Result{Output: out.String(), Failure: f}
	case <-ctx.Done():
		// The host call keeps running; there is no way to cancel it. Report
		// the expiry and leave the host as-is.
		return Result{
			Output:  out.String(),
			Failure: &Failure{Message: "execution timed out: " + ctx.Err().Error()},
		}
	}
}

// exports assembles the ambient vocabulary for one run: session handles,
// the three resolution helpers, and the Log sink. Optional factory handles
// are bound only when their resolution succeeded; a script referencing an
// unbound name fails clearly at evaluation.
func (r *Runner) exports(h *binder.Handles, out *output) interp.Exports {
	syms := map[string]reflect.Value{
		"Catia":         reflect.ValueOf(h.App),
		"Editor":        reflect.ValueOf(h.Editor),
		"Selection":     reflect.ValueOf(h.Selection),
		"RequireBody":   reflect.ValueOf(r.Heuristics.RequireBody),
		"RequireGeoset": reflect.ValueOf(r.Heuristics.RequireGeoset),
		"TopFace":       reflect.ValueOf(r.Heuristics.TopFace),
		"Log":           reflect.ValueOf(out.logf),
	}
	if h.Part != nil {
		syms["Part"] = reflect.ValueOf(h.Part)
	}
	if h.HSF != nil {
		syms["HSF"] = reflect.ValueOf(h.HSF)
	}
	if h.SF != nil {
		syms["SF"] = reflect.ValueOf(h.SF)
	}
	if h.Bodies != nil {
		syms["Bodies"] = reflect.ValueOf(h.Bodies)
	}
	return interp.Exports{"catia/catia": syms}
}

// wrap embeds the script statements into an entry function with the ambient
// vocabulary dot-imported. The leading blank assignment keeps the import
// live for scripts that reference no ambient name.
func wrap(script string) string {
	var sb strings.Builder
	sb.WriteString("package main\n\nimport . \"catia\"\n\nfunc Run() {\n\t_ = Catia\n")
	sb.WriteString(script)
	sb.WriteString("\n}\n")
	return sb.String()
}

func faultMessage(rec any) string {
	if f, ok := rec.(*host.Fault); ok {
		return f.Error()
	}
	return fmt.Sprintf("script fault: %v", rec)
}

func failed(msg string) Result {
	return Result{Failure: &Failure{Message: msg}}
}

// output collects script Log lines.
type output struct {
	mu sync.Mutex
	sb strings.Builder
}

func (o *output) logf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(&o.sb, format, args...)
	o.sb.WriteByte('\n')
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sb.String()
}
