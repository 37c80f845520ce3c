package view

import (
	"context"

	"github.com/genomevis/gv"
)

// LoadData materializes the node's declared data source. Nodes without a
// source are a no-op; they read an ancestor's data through GetData.
func (n *Node) LoadData(ctx context.Context) error {
	if n.spec.Data == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	src := n.spec.Data
	switch {
	case src.Values != nil:
		// Own copy, so transforms never alias the spec's slice.
		n.data = append([]gv.Datum(nil), src.Values...)
	case src.Sequence != nil:
		data, err := generateSequence(src.Sequence)
		if err != nil {
			return gv.Configf("loadData", n.path, "%v", err)
		}
		n.data = data
	default:
		return gv.Configf("loadData", n.path, "data source declares neither values nor sequence")
	}

	gv.Logger().Debug("data loaded", "view", n.path, "items", len(n.data))
	return nil
}

func generateSequence(seq *SequenceSpec) ([]gv.Datum, error) {
	step := seq.Step
	if step == 0 {
		step = 1
	}
	if step < 0 {
		return nil, gv.Configf("sequence", "", "step must be positive, got %v", step)
	}
	field := seq.As
	if field == "" {
		field = "data"
	}
	if seq.Stop <= seq.Start {
		return []gv.Datum{}, nil
	}

	data := make([]gv.Datum, 0, int((seq.Stop-seq.Start)/step)+1)
	for v := seq.Start; v < seq.Stop; v += step {
		data = append(data, gv.Datum{field: v})
	}
	return data, nil
}

// TransformData applies the node's transform pipeline, in declared order,
// to the dataset GetData returns at call time, storing the result as the
// node's own data. Ancestors must already be transformed: GetData may read
// an ancestor's transformed dataset.
func (n *Node) TransformData() error {
	if len(n.spec.Transforms) == 0 {
		return nil
	}

	data, err := n.GetData()
	if err != nil {
		return err
	}

	for _, t := range n.spec.Transforms {
		data, err = n.applyTransform(t, data)
		if err != nil {
			return err
		}
	}
	n.data = data
	return nil
}

func (n *Node) applyTransform(t TransformSpec, data []gv.Datum) ([]gv.Datum, error) {
	expr, err := n.params.CreateExpression(t.Expr)
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case TransformFilter:
		out := make([]gv.Datum, 0, len(data))
		for _, d := range data {
			v, err := expr.Eval(d)
			if err != nil {
				return nil, err
			}
			if truthy(v) {
				out = append(out, d)
			}
		}
		return out, nil

	case TransformFormula:
		if t.As == "" {
			return nil, gv.Configf("transform", n.path, "formula requires a destination field")
		}
		out := make([]gv.Datum, 0, len(data))
		for _, d := range data {
			v, err := expr.Eval(d)
			if err != nil {
				return nil, err
			}
			next := make(gv.Datum, len(d)+1)
			for k, fv := range d {
				next[k] = fv
			}
			next[t.As] = v
			out = append(out, next)
		}
		return out, nil

	default:
		return nil, gv.Configf("transform", n.path, "unknown transform kind %q", t.Kind)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case nil:
		return false
	}
	if f, ok := gv.AsNumber(v); ok {
		return f != 0
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
