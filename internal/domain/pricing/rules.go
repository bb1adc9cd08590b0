package pricing

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"
)

// Price-list and contract entries may carry an applicability condition,
// a CEL expression over the customer and the ordered quantity, e.g.
//
//	tier == "gold" && quantity >= 24.0
//	channel == "wholesale"
//
// An entry without a condition always applies. Conditions are compiled once
// and cached; a malformed condition makes its entry inapplicable rather than
// failing the whole lookup.

var ruleEnvOnce = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("tier", cel.StringType),
		cel.Variable("channel", cel.StringType),
		cel.Variable("quantity", cel.DoubleType),
	)
})

// Rule is a compiled applicability condition.
type Rule struct {
	expr string
	prg  cel.Program
}

// CompileRule parses and type-checks a condition expression.
func CompileRule(expr string) (*Rule, error) {
	env, err := ruleEnvOnce()
	if err != nil {
		return nil, fmt.Errorf("build rule env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("rule %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}

	return &Rule{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (r *Rule) String() string {
	return r.expr
}

// Applies evaluates the condition against a customer context and quantity.
func (r *Rule) Applies(tier string, channel Channel, quantity decimal.Decimal) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"tier":     tier,
		"channel":  string(channel),
		"quantity": quantity.InexactFloat64(),
	})
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", r.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q returned non-bool %v", r.expr, out.Value())
	}
	return b, nil
}
