package expr

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Evaluator runs visibility rules written in the expr language.
//
// Rules see every entry of visibility.Context.Values as a variable (dotted
// keys such as "owner.email" are expanded into nested maps) and the extras
// under the `extras` variable. When a plain key and a dotted key collide
// ("owner" and "owner.email") the plain value wins:
//
//	enabled
//	kind == "task" && extras.canEdit
//	len(reviewers) > 0 || !draft
//
// Unknown variables evaluate to nil. Rules must produce a boolean.
type Evaluator struct {
	programs *lru.Cache[string, *vm.Program]
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// DefaultCacheSize bounds the number of compiled rules kept by New.
const DefaultCacheSize = 512

// New returns an Evaluator caching up to DefaultCacheSize compiled rules.
func New() *Evaluator {
	return NewWithCacheSize(DefaultCacheSize)
}

// NewWithCacheSize returns an Evaluator caching up to size compiled rules.
// Non-positive sizes fall back to DefaultCacheSize.
func NewWithCacheSize(size int) *Evaluator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	programs, _ := lru.New[string, *vm.Program](size)
	return &Evaluator{programs: programs}
}

// Eval compiles (once) and runs rule against ctx. An empty rule is visible.
func (e *Evaluator) Eval(controlName, rule string, ctx visibility.Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	program, err := e.program(trimmed)
	if err != nil {
		return false, fmt.Errorf("visibility/expr: compile rule for %q: %w", controlName, err)
	}

	out, err := expr.Run(program, buildEnv(ctx))
	if err != nil {
		return false, fmt.Errorf("visibility/expr: run rule for %q: %w", controlName, err)
	}
	visible, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("visibility/expr: rule for %q returned %T, want bool", controlName, out)
	}
	return visible, nil
}

func (e *Evaluator) program(rule string) (*vm.Program, error) {
	if program, ok := e.programs.Get(rule); ok {
		return program, nil
	}
	program, err := expr.Compile(rule, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.programs.Add(rule, program)
	return program, nil
}

func buildEnv(ctx visibility.Context) map[string]any {
	env := make(map[string]any, len(ctx.Values)+1)
	// sorted so "owner" is bound before "owner.email" on every run
	for _, key := range slices.Sorted(maps.Keys(ctx.Values)) {
		setPath(env, strings.Split(key, "."), ctx.Values[key])
	}
	extras := make(map[string]any, len(ctx.Extras))
	for key, value := range ctx.Extras {
		extras[key] = value
	}
	env["extras"] = extras
	return env
}

func setPath(target map[string]any, segments []string, value any) {
	head := strings.TrimSpace(segments[0])
	if head == "" {
		return
	}
	if len(segments) == 1 {
		target[head] = value
		return
	}
	var child map[string]any
	switch existing := target[head].(type) {
	case nil:
		child = make(map[string]any)
	case map[string]any:
		// copied so caller-owned maps are never written to
		child = maps.Clone(existing)
	default:
		// a scalar already bound under head shadows the dotted key
		return
	}
	target[head] = child
	setPath(child, segments[1:], value)
}
