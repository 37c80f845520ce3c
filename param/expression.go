package param

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/genomevis/gv"
)

// datumVar is the reserved variable name bound to the current data item at
// evaluation time rather than to an ancestor mediator.
const datumVar = "datum"

// exprFunctions is the function table available to parameter expressions.
// A small, stable subset of the cty stdlib; expressions are spec-authored
// formulas, not a scripting language.
var exprFunctions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"pow":    stdlib.PowFunc,
	"length": stdlib.LengthFunc,
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"format": stdlib.FormatFunc,
}

// Expression is a compiled parameter expression.
//
// Free variables are resolved when the expression is compiled: each variable
// is bound to the nearest ancestor mediator that owns it, and that binding
// never changes for the expression's lifetime. Evaluation reads the bound
// mediators' current values.
type Expression struct {
	owner    *Mediator
	source   string
	expr     hclsyntax.Expression
	bindings map[string]*Mediator
	subs     []*Subscription
}

// CreateExpression compiles source, or returns the expression already
// compiled for the exact same source text on this mediator.
//
// Compilation resolves every free variable against the mediator chain and
// fails with a ConfigError when a variable is unresolved or the source does
// not parse.
func (m *Mediator) CreateExpression(source string) (*Expression, error) {
	if cached, found := m.exprs.Get(source); found {
		return cached, nil
	}

	parsed, diags := hclsyntax.ParseExpression([]byte(source), "<param>", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, gv.Configf("createExpression", source, "parse error: %s", diags.Error())
	}

	// Bind each free variable to the nearest ancestor that owns it. The
	// bindings are fixed here, once, for the expression's lifetime.
	bindings := make(map[string]*Mediator)
	for _, traversal := range parsed.Variables() {
		name := traversal.RootName()
		if name == datumVar {
			continue
		}
		if _, bound := bindings[name]; bound {
			continue
		}
		owner := m.findOwner(name)
		if owner == nil {
			return nil, gv.Configf("createExpression", name, "unresolved expression variable")
		}
		bindings[name] = owner
	}

	expr := &Expression{
		owner:    m,
		source:   source,
		expr:     parsed,
		bindings: bindings,
	}
	m.exprs.Set(source, expr)
	return expr, nil
}

// EvaluateAndGet compiles source (or reuses the cached compilation) and
// evaluates it with no datum.
func (m *Mediator) EvaluateAndGet(source string) (any, error) {
	expr, err := m.CreateExpression(source)
	if err != nil {
		return nil, err
	}
	return expr.Value()
}

// Identifier returns the source text the expression was compiled from,
// which is also its cache key within the owning mediator.
func (e *Expression) Identifier() string { return e.source }

// Value evaluates the expression with no datum in scope.
func (e *Expression) Value() (any, error) {
	return e.Eval(nil)
}

// Eval evaluates the expression against the bound parameters' current
// values, with datum (when non-nil) exposed as the "datum" variable.
func (e *Expression) Eval(datum gv.Datum) (any, error) {
	variables := make(map[string]cty.Value, len(e.bindings)+1)
	for name, owner := range e.bindings {
		v, err := goToCty(owner.values[name])
		if err != nil {
			return nil, gv.Configf("expression", name, "unrepresentable parameter value: %v", err)
		}
		variables[name] = v
	}
	if datum != nil {
		v, err := goToCty(map[string]any(datum))
		if err != nil {
			return nil, gv.Configf("expression", datumVar, "unrepresentable datum: %v", err)
		}
		variables[datumVar] = v
	}

	ctx := &hcl.EvalContext{
		Variables: variables,
		Functions: exprFunctions,
	}
	result, diags := e.expr.Value(ctx)
	if diags.HasErrors() {
		return nil, gv.Configf("expression", e.source, "evaluation failed: %s", diags.Error())
	}
	return ctyToGo(result)
}

// AddListener subscribes cb to every bound dependency, in each dependency's
// owning mediator. The registrations are recorded so Invalidate can remove
// exactly these entries later.
func (e *Expression) AddListener(cb func()) {
	for name, owner := range e.bindings {
		e.subs = append(e.subs, owner.Subscribe(name, cb))
	}
}

// Invalidate removes the listeners this expression added from the mediators
// it added them to, and nothing else. The expression remains evaluable.
func (e *Expression) Invalidate() {
	for _, sub := range e.subs {
		sub.Unsubscribe()
	}
	e.subs = nil
}
