package widget

import (
	"fmt"

	"github.com/ItsNotGoodName/x-tagbar/internal/pixel"
)

// Node is a base widget with children stacked on top of it, each centred.
// Its size is always the size of the base.
type Node struct {
	base     Widget
	children []Widget
}

func NewNode(base Widget) *Node {
	return &Node{base: base}
}

// Center stacks w on top of the node, centred on the base.
func (n *Node) Center(w Widget) error {
	if w == nil {
		return ErrNilWidget
	}
	if w.Width() > n.base.Width() || w.Height() > n.base.Height() {
		return fmt.Errorf("%w: %dx%d on %dx%d", ErrDoesNotFit, w.Width(), w.Height(), n.base.Width(), n.base.Height())
	}
	n.children = append(n.children, w)
	return nil
}

func (n *Node) Base() Widget { return n.base }

func (n *Node) Len() int { return len(n.children) }

func (n *Node) Child(i int) Widget {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) Width() int  { return n.base.Width() }
func (n *Node) Height() int { return n.base.Height() }

// Color is the color of the base, if it has one.
func (n *Node) Color() pixel.Color {
	if c, ok := n.base.(Colorable); ok {
		return c.Color()
	}
	return pixel.Transparent
}

func (n *Node) SetColor(c pixel.Color) {
	if base, ok := n.base.(Colorable); ok {
		base.SetColor(c)
	}
}

func (n *Node) offset(w Widget) (int, int) {
	return (n.base.Width() - w.Width()) / 2, (n.base.Height() - w.Height()) / 2
}

// Contains gives the input to the topmost child under the pointer, falling
// back to the base.
func (n *Node) Contains(x, y int, in Input) Damage {
	for i := len(n.children) - 1; i >= 0; i-- {
		child := n.children[i]
		dx, dy := n.offset(child)
		if Within(child, x-dx, y-dy) {
			return child.Contains(x-dx, y-dy, in).Translate(dx, dy)
		}
	}
	return n.base.Contains(x, y, in)
}

func (n *Node) Draw(dst *pixel.Surface, x, y int) {
	n.base.Draw(dst, x, y)
	for _, child := range n.children {
		dx, dy := n.offset(child)
		child.Draw(dst, x+dx, y+dy)
	}
}
