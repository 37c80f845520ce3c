package view

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/genomevis/gv"
	"github.com/genomevis/gv/mark"
)

// defaultBatchKey groups data of marks without a sample field.
const defaultBatchKey = "default"

// Initialize runs the full pipeline over the tree: concurrent data loads
// behind a barrier, top-down transforms, scale resolution, then vertex
// construction per mark node.
//
// The barrier is all-or-nothing: a single failed load fails the whole
// initialization and cancels the loads still in flight. No partial tree
// survives.
func Initialize(ctx context.Context, root *Node) error {
	nodes := root.Flatten()

	g, ctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		g.Go(func() error {
			if err := n.LoadData(ctx); err != nil {
				return fmt.Errorf("load %s: %w", n.path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, n := range nodes {
		if err := n.TransformData(); err != nil {
			return fmt.Errorf("transform %s: %w", n.path, err)
		}
	}

	if err := resolveScales(nodes); err != nil {
		return err
	}

	for _, n := range nodes {
		if err := n.buildMark(); err != nil {
			return fmt.Errorf("mark %s: %w", n.path, err)
		}
	}
	return nil
}

// encoderFor produces the mark encoder for channel from the node's
// effective encoding: a constant from Value, a field accessor through the
// resolved scale from Field, or fallback when the channel is unspecified.
func (n *Node) encoderFor(channel string, fallback any) mark.Encoder {
	enc, found := n.GetEncoding()[channel]
	if !found {
		return mark.Constant(fallback)
	}
	if enc.Field == "" {
		return mark.Constant(enc.Value)
	}

	var scale func(float64) float64
	if r, ok := n.GetResolution(channel); ok {
		scale = r.Scale()
	}
	return mark.Field(enc.Field, scale)
}

// buildMark constructs the node's vertex arrays, batched by the mark's
// sample field in first-appearance order.
func (n *Node) buildMark() error {
	if n.spec.Mark == nil {
		return nil
	}

	data, err := n.GetData()
	if err != nil {
		return err
	}
	keys, batches := batchBySample(data, n.spec.Mark.SampleField)

	builder, err := n.newMarkBuilder()
	if err != nil {
		return err
	}
	for _, key := range keys {
		builder.AddBatch(key, batches[key])
	}

	arrays, err := builder.ToArrays()
	if err != nil {
		return err
	}
	n.markData = arrays

	gv.Logger().Debug("mark built",
		"view", n.path, "kind", n.spec.Mark.Kind, "vertices", arrays.VertexCount)
	return nil
}

// markBuilder is the behavior shared by every mark's builder.
type markBuilder interface {
	AddBatch(key string, data []gv.Datum)
	ToArrays() (*mark.Arrays, error)
}

func (n *Node) newMarkBuilder() (markBuilder, error) {
	m := n.spec.Mark
	switch m.Kind {
	case MarkPoint:
		return mark.NewPointBuilder(mark.PointChannels{
			X:           n.encoderFor("x", 0.0),
			Y:           n.encoderFor("y", 0.0),
			Size:        n.encoderFor("size", 1.0),
			Color:       n.encoderFor("color", "black"),
			Opacity:     n.encoderFor("opacity", 1.0),
			Shape:       n.encoderFor("shape", "circle"),
			StrokeWidth: n.encoderFor("strokeWidth", 0.0),
		}), nil

	case MarkRect:
		// The builder clips in the same space as the emitted x values,
		// so a domain-space window maps through the x scale first.
		lower, upper := m.Lower, m.Upper
		if lower != 0 || upper != 0 {
			if r, ok := n.GetResolution("x"); ok {
				scale := r.Scale()
				lower, upper = scale(lower), scale(upper)
			}
		}
		return mark.NewRectBuilder(mark.RectChannels{
			X:       n.encoderFor("x", 0.0),
			X2:      n.encoderFor("x2", 0.0),
			Y:       n.encoderFor("y", 0.0),
			Y2:      n.encoderFor("y2", 0.0),
			Color:   n.encoderFor("color", "black"),
			Opacity: n.encoderFor("opacity", 1.0),
		}, mark.RectOptions{
			Squeeze: m.Squeeze,
			Lower:   lower,
			Upper:   upper,
		}), nil

	case MarkRule:
		return mark.NewRuleBuilder(mark.RuleChannels{
			X:       n.encoderFor("x", 0.0),
			Y:       n.encoderFor("y", 0.0),
			X2:      n.encoderFor("x2", 0.0),
			Y2:      n.encoderFor("y2", 0.0),
			Width:   n.encoderFor("width", 1.0),
			Color:   n.encoderFor("color", "black"),
			Opacity: n.encoderFor("opacity", 1.0),
		}, mark.RuleOptions{}), nil

	case MarkConnection:
		return mark.NewConnectionBuilder(mark.ConnectionChannels{
			X:       n.encoderFor("x", 0.0),
			Y:       n.encoderFor("y", 0.0),
			X2:      n.encoderFor("x2", 0.0),
			Y2:      n.encoderFor("y2", 0.0),
			Size:    n.encoderFor("size", 1.0),
			Size2:   n.encoderFor("size2", 1.0),
			Color:   n.encoderFor("color", "black"),
			Color2:  n.encoderFor("color2", "black"),
			Opacity: n.encoderFor("opacity", 1.0),
		}), nil

	case MarkText:
		return mark.NewTextBuilder(mark.TextChannels{
			X:       n.encoderFor("x", 0.0),
			Y:       n.encoderFor("y", 0.0),
			Text:    n.encoderFor("text", ""),
			Size:    n.encoderFor("size", 11.0),
			Color:   n.encoderFor("color", "black"),
			Opacity: n.encoderFor("opacity", 1.0),
		}, m.Font, mark.TextOptions{
			Align:    m.Align,
			Baseline: m.Baseline,
		}), nil

	default:
		return nil, gv.Configf("mark", n.path, "unknown mark kind %q", m.Kind)
	}
}

// batchBySample groups data by field value in first-appearance order.
// An empty field name puts everything under one key.
func batchBySample(data []gv.Datum, field string) ([]string, map[string][]gv.Datum) {
	if field == "" {
		return []string{defaultBatchKey}, map[string][]gv.Datum{defaultBatchKey: data}
	}

	var keys []string
	batches := make(map[string][]gv.Datum)
	for _, d := range data {
		key := defaultBatchKey
		// Sample ids need not be strings; numeric ids stringify so
		// distinct samples keep distinct ranges.
		switch v := d.Field(field).(type) {
		case nil:
		case string:
			if v != "" {
				key = v
			}
		default:
			key = fmt.Sprint(v)
		}
		if _, seen := batches[key]; !seen {
			keys = append(keys, key)
		}
		batches[key] = append(batches[key], d)
	}
	return keys, batches
}
