// Package filter evaluates expr-lang expressions against lookup results.
//
// Expressions see the fields of the service response as variables, for example:
//
//	status && gender == "female" && probability >= 90
//	!status && errno == 50
//	known && hasPrefixFold(q, "mar")
//	lower(country) in ["de", "at", "ch"]
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/genderapi/genderapi"
)

// Filter is a compiled expression. It is safe for concurrent use.
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a boolean filter expression
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv(nil)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Err: err}
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Expression returns the source expression
func (f *Filter) Expression() string {
	return f.expr
}

// Match reports whether the result satisfies the expression
func (f *Filter) Match(res genderapi.Result) (bool, error) {
	if res == nil {
		return false, &EvaluationError{Expression: f.expr, Subject: "<nil>", Err: fmt.Errorf("no result")}
	}

	out, err := expr.Run(f.program, newEnv(res))
	if err != nil {
		return false, &EvaluationError{Expression: f.expr, Subject: subject(res), Err: err}
	}

	matched, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{Expression: f.expr, Subject: subject(res), Err: fmt.Errorf("expression returned %T, not bool", out)}
	}
	return matched, nil
}

func subject(res genderapi.Result) string {
	switch r := res.(type) {
	case *genderapi.SuccessResult:
		if r.Query != "" {
			return r.Query
		}
		return r.Name
	case *genderapi.ErrorResult:
		return fmt.Sprintf("error %d", r.Errno)
	}
	return fmt.Sprintf("%T", res)
}
