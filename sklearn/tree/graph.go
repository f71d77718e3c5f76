package tree

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/YuminosukeSato/dtree/pkg/errors"
)

// GraphFormats maps the names accepted by the CLI to graphviz output formats.
var GraphFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
}

// DrawGraph lays the tree out as a graphviz graph. The left edge of every
// decision node is the x[f] <= t branch. The caller owns both return values
// and must Close them.
func (t *Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	if t == nil || t.Root == nil {
		return nil, nil, errors.NewNotFittedError("Tree", "DrawGraph")
	}

	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		gv.Close()
		return nil, nil, errors.Wrap(err, "tree: create graph")
	}

	next := 0
	if err := drawNode(graph, t.Root, nil, &next); err != nil {
		graph.Close()
		gv.Close()
		return nil, nil, err
	}
	return gv, graph, nil
}

func drawNode(g *cgraph.Graph, n Node, parent *cgraph.Node, next *int) error {
	current, err := g.CreateNode(fmt.Sprintf("n%d", *next))
	if err != nil {
		return errors.Wrap(err, "tree: create graph node")
	}
	*next++

	if parent != nil {
		if _, err := g.CreateEdge("", parent, current); err != nil {
			return errors.Wrap(err, "tree: create graph edge")
		}
	}

	switch v := n.(type) {
	case *Leaf:
		current.Set("label", fmt.Sprintf("class = %d\nsamples = %d\ncounts = %v", v.Value, v.Samples, v.Counts))
		current.Set("shape", "box")
	case *Internal:
		current.Set("label", fmt.Sprintf("x[%d] <= %g\ngain = %.4f\nsamples = %d", v.Feature, v.Threshold, v.Gain, v.Samples))
		if err := drawNode(g, v.Left, current, next); err != nil {
			return err
		}
		return drawNode(g, v.Right, current, next)
	}
	return nil
}

// Render writes the tree to w in the given graphviz format.
func (t *Tree) Render(w io.Writer, format graphviz.Format) error {
	gv, graph, err := t.DrawGraph()
	if err != nil {
		return err
	}
	defer gv.Close()
	defer graph.Close()

	if err := gv.Render(graph, format, w); err != nil {
		return errors.Wrapf(err, "tree: render %s", format)
	}
	return nil
}

// RenderFile writes the tree to path in the given graphviz format.
func (t *Tree) RenderFile(path string, format graphviz.Format) error {
	gv, graph, err := t.DrawGraph()
	if err != nil {
		return err
	}
	defer gv.Close()
	defer graph.Close()

	if err := gv.RenderFilename(graph, format, path); err != nil {
		return errors.Wrapf(err, "tree: render %s", path)
	}
	return nil
}
