package task

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
)

// ErrInvalidFilter is returned for filter expressions that do not compile
// to a boolean.
var ErrInvalidFilter = errors.New("task: invalid filter")

// Filter is a compiled CEL predicate over tasks. The expression sees one
// variable, task, with the fields:
//
//	id           string
//	config_name  string
//	function     string
//	inputs       list of input config names, in order
//	outputs      list of output config names, in order
//	input_ids    list of input data-source ids, in order
//	output_ids   list of output data-source ids, in order
//
// For example:
//
//	task.config_name == "clean" && "raw" in task.inputs
type Filter struct {
	expr    string
	program cel.Program
}

// NewFilter compiles expr.
func NewFilter(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("task", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, iss.Err())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, fmt.Errorf("%w: %q evaluates to %s, not bool", ErrInvalidFilter, expr, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return &Filter{expr: expr, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter against t.
func (f *Filter) Match(t *Task) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{"task": view(t)})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q on task %s: %w", f.expr, t.ID(), err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, not bool", f.expr, out.Value())
	}
	return matched, nil
}

func view(t *Task) map[string]any {
	return map[string]any{
		"id":          string(t.ID()),
		"config_name": t.ConfigName(),
		"function":    t.Function(),
		"inputs":      t.Input().Names(),
		"outputs":     t.Output().Names(),
		"input_ids":   t.Input().IDs(),
		"output_ids":  t.Output().IDs(),
	}
}
