package match

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type exprMatcher struct {
	expression string

	once    sync.Once
	program *vm.Program
	err     error
}

// Expr matches when the boolean expression evaluates to true. The actual
// value is available as `value`; when it is a JSON object its keys are also
// exposed as top-level variables:
//
//	match.Expr(`name startsWith "a" && len(tags) > 0`)
//
// Expressions that fail to compile or evaluate never match.
func Expr(expression string) Matcher {
	return &exprMatcher{expression: expression}
}

func (e *exprMatcher) compile() (*vm.Program, error) {
	e.once.Do(func() {
		e.program, e.err = expr.Compile(e.expression, expr.AsBool(), expr.AllowUndefinedVariables())
	})
	return e.program, e.err
}

func (e *exprMatcher) Match(actual any) bool {
	program, err := e.compile()
	if err != nil {
		return false
	}

	value := Normalize(actual)
	env := map[string]any{}
	if obj, ok := value.(map[string]any); ok {
		for k, v := range obj {
			env[k] = v
		}
	}
	env["value"] = value

	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	result, ok := out.(bool)
	return ok && result
}
