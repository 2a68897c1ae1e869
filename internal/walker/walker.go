// Package walker visits a scene hierarchy depth-first, parents before
// children, so every node is emitted after the node it is attached to.
package walker

import (
	"errors"
	"fmt"

	"github.com/Faultbox/blendexport/pkg/scene"
)

// ErrCycle is returned when a node is reached a second time, either through
// a cycle or because two parents share it.
var ErrCycle = errors.New("node reached twice")

// VisitFunc is called once per node. parent is nil for roots.
// A non-nil error stops the walk and is returned by Walk.
type VisitFunc func(node, parent *scene.Node) error

// Walk visits every node under roots in pre-order, siblings in slice order.
func Walk(roots []*scene.Node, visit VisitFunc) error {
	w := walk{visit: visit, seen: make(map[*scene.Node]struct{})}
	for _, root := range roots {
		if err := w.node(root, nil); err != nil {
			return err
		}
	}
	return nil
}

type walk struct {
	visit VisitFunc
	seen  map[*scene.Node]struct{}
}

func (w *walk) node(n, parent *scene.Node) error {
	if n == nil {
		return nil
	}
	if _, ok := w.seen[n]; ok {
		return fmt.Errorf("%w: %s", ErrCycle, n.ID())
	}
	w.seen[n] = struct{}{}

	if err := w.visit(n, parent); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := w.node(child, n); err != nil {
			return err
		}
	}
	return nil
}

// Count returns how many distinct nodes are reachable from roots, stopping
// at the first repeated node.
func Count(roots []*scene.Node) (int, error) {
	n := 0
	err := Walk(roots, func(*scene.Node, *scene.Node) error {
		n++
		return nil
	})
	return n, err
}
