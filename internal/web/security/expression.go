package security

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// ExpressionEvaluator evaluates an access-control expression against a bag
// of variables. The expression grammar is an implementation detail of the
// evaluator; callers only depend on the boolean outcome.
type ExpressionEvaluator interface {
	Evaluate(expression string, vars map[string]any) (bool, error)
}

// ExprEvaluator evaluates expressions with the expr language.
//
// Expressions see the variable bag as their environment, e.g.
//
//	"user.ID == 'u1'"
//	"'ROLE_ADMIN' in roles"
type ExprEvaluator struct{}

// Evaluate compiles and runs the expression. Non-boolean results and
// compile or runtime failures are returned as errors.
func (ExprEvaluator) Evaluate(expression string, vars map[string]any) (bool, error) {
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return false, fmt.Errorf("invalid access control expression %q: %w", expression, err)
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return false, fmt.Errorf("access control expression %q failed: %w", expression, err)
	}

	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("access control expression %q did not evaluate to a boolean", expression)
	}
	return result, nil
}
