// Package celmatch builds filter comparators from CEL expressions.
//
// An expression sees the row value as a and the rule value as b:
//
//	a.startsWith(b)
//	a.size() > b
//	a in b
package celmatch

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/Alp4ka/rowset"
)

// Compiler compiles and caches comparator programs. It is not safe for
// concurrent use.
type Compiler struct {
	env      *cel.Env
	programs map[string]cel.Program
}

// New creates a Compiler with a and b declared as dynamic values.
func New() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("a", cel.DynType),
		cel.Variable("b", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	return &Compiler{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile turns expr into a comparator. The expression must yield a bool;
// evaluation errors count as no match.
func (c *Compiler) Compile(expr string) (rowset.MatchFunc, error) {
	prg, ok := c.programs[expr]
	if !ok {
		var err error
		if prg, err = c.program(expr); err != nil {
			return nil, err
		}
		c.programs[expr] = prg
	}

	return func(field, value any) bool {
		out, _, err := prg.Eval(map[string]any{"a": field, "b": value})
		if err != nil {
			return false
		}
		b, ok := out.Value().(bool)

		return ok && b
	}, nil
}

func (c *Compiler) program(expr string) (cel.Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", t)
	}

	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program construction error: %w", err)
	}

	return prg, nil
}

// Compile compiles expr with a fresh Compiler.
func Compile(expr string) (rowset.MatchFunc, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}

	return c.Compile(expr)
}
