package param

import (
	"testing"

	"github.com/genomevis/gv"
)

func TestCreateExpressionCachedBySource(t *testing.T) {
	m := New()
	if _, err := m.AllocateSetter("a", 1.0); err != nil {
		t.Fatal(err)
	}

	e1, err := m.CreateExpression("a + 1")
	if err != nil {
		t.Fatal(err)
	}
	e2, err := m.CreateExpression("a + 1")
	if err != nil {
		t.Fatal(err)
	}
	if e1 != e2 {
		t.Error("identical source text produced distinct expressions")
	}

	e3, err := m.CreateExpression("a + 2")
	if err != nil {
		t.Fatal(err)
	}
	if e1 == e3 {
		t.Error("different source text shared a compiled expression")
	}
}

func TestExpressionUnresolvedVariable(t *testing.T) {
	m := New()
	if _, err := m.CreateExpression("missing * 2"); err == nil {
		t.Fatal("expected ConfigError for unresolved variable")
	}
}

func TestExpressionParseError(t *testing.T) {
	m := New()
	if _, err := m.CreateExpression("1 +"); err == nil {
		t.Fatal("expected ConfigError for malformed source")
	}
}

func TestExpressionDatumEval(t *testing.T) {
	m := New()
	expr, err := m.CreateExpression("datum.x + datum.y")
	if err != nil {
		t.Fatal(err)
	}

	v, err := expr.Eval(gv.Datum{"x": 1.0, "y": 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if v != 3.0 {
		t.Errorf("Eval({1,2}) = %v, want 3", v)
	}

	v, err = expr.Eval(gv.Datum{"x": 3.0, "y": 4.0})
	if err != nil {
		t.Fatal(err)
	}
	if v != 7.0 {
		t.Errorf("Eval({3,4}) = %v, want 7", v)
	}
}

func TestExpressionBindsNearestAncestor(t *testing.T) {
	root := New()
	child := NewChild(root)

	setRoot, err := root.AllocateSetter("base", 10.0)
	if err != nil {
		t.Fatal(err)
	}

	expr, err := child.CreateExpression("base * 2")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := expr.Value(); v != 20.0 {
		t.Errorf("Value() = %v, want 20", v)
	}

	// The binding targets the owner at compile time; its value changes
	// are observed.
	setRoot(15.0)
	if v, _ := expr.Value(); v != 30.0 {
		t.Errorf("Value() = %v after upstream change, want 30", v)
	}

	// A value appearing later on the child does not rebind the variable.
	if _, err := child.AllocateSetter("base", 100.0); err != nil {
		t.Fatal(err)
	}
	if v, _ := expr.Value(); v != 30.0 {
		t.Errorf("Value() = %v, binding should stay fixed on the ancestor", v)
	}
}

func TestExpressionListenerAndInvalidate(t *testing.T) {
	root := New()
	child := NewChild(root)

	setA, _ := root.AllocateSetter("a", 1.0)
	setB, _ := root.AllocateSetter("b", 1.0)

	expr, err := child.CreateExpression("a + b")
	if err != nil {
		t.Fatal(err)
	}

	fired := 0
	expr.AddListener(func() { fired++ })

	setA(2.0)
	setB(2.0)
	if fired != 2 {
		t.Errorf("listener fired %d times, want 2", fired)
	}

	// Invalidate removes exactly the entries this expression added; an
	// unrelated subscription in the same registry survives.
	unrelated := 0
	root.Subscribe("a", func() { unrelated++ })

	expr.Invalidate()
	setA(3.0)
	setB(3.0)
	if fired != 2 {
		t.Errorf("listener fired %d times after Invalidate, want 2", fired)
	}
	if unrelated != 1 {
		t.Errorf("unrelated listener fired %d times, want 1", unrelated)
	}
}

func TestRegisterParamExpression(t *testing.T) {
	root := New()
	child := NewChild(root)

	setBase, _ := root.AllocateSetter("base", 2.0)

	noop, err := child.RegisterParam(Spec{Name: "derived", Expr: "base * 10"})
	if err != nil {
		t.Fatal(err)
	}
	if child.GetValue("derived") != 20.0 {
		t.Errorf("initial derived = %v, want 20", child.GetValue("derived"))
	}

	// Upstream change re-applies the setter.
	fired := 0
	child.Subscribe("derived", func() { fired++ })
	setBase(3.0)
	if child.GetValue("derived") != 30.0 {
		t.Errorf("derived = %v after upstream change, want 30", child.GetValue("derived"))
	}
	if fired != 1 {
		t.Errorf("derived listener fired %d times, want 1", fired)
	}

	// The returned setter is a no-op for expression-backed parameters.
	noop(999.0)
	if child.GetValue("derived") != 30.0 {
		t.Errorf("derived = %v after external set, want 30", child.GetValue("derived"))
	}
}

func TestEvaluateAndGet(t *testing.T) {
	m := New()
	if _, err := m.AllocateSetter("n", 4.0); err != nil {
		t.Fatal(err)
	}

	v, err := m.EvaluateAndGet("pow(n, 2)")
	if err != nil {
		t.Fatal(err)
	}
	if v != 16.0 {
		t.Errorf("EvaluateAndGet = %v, want 16", v)
	}

	s, err := m.EvaluateAndGet(`upper("abc")`)
	if err != nil {
		t.Fatal(err)
	}
	if s != "ABC" {
		t.Errorf("EvaluateAndGet = %v, want ABC", s)
	}
}

func TestExpressionConditional(t *testing.T) {
	m := New()
	set, _ := m.AllocateSetter("zoomed", false)

	expr, err := m.CreateExpression(`zoomed ? 1.0 : 0.25`)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := expr.Value(); v != 0.25 {
		t.Errorf("Value() = %v, want 0.25", v)
	}
	set(true)
	if v, _ := expr.Value(); v != 1.0 {
		t.Errorf("Value() = %v, want 1", v)
	}
}
