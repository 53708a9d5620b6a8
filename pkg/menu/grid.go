package menu

// Grid is a row-major layout of elements. A grid is owned either by
// one menu (the static layout) or by one render pass / one generator
// invocation (transient grids, discarded after splicing).
type Grid struct {
	rows [][]*Element
}

// NewGrid returns a grid with one empty row ready for appends.
func NewGrid() *Grid {
	return &Grid{rows: [][]*Element{{}}}
}

// Append pushes an element onto the current (last) row.
func (g *Grid) Append(e *Element) {
	last := len(g.rows) - 1
	g.rows[last] = append(g.rows[last], e)
}

// NewRow starts a new row. No-op when the current row is empty, so
// repeated calls never accumulate blank rows.
func (g *Grid) NewRow() {
	if len(g.rows[len(g.rows)-1]) == 0 {
		return
	}
	g.rows = append(g.rows, []*Element{})
}

// EvaluateAll recomputes every element's requirement flags against ctx.
// Runs once per render pass before serialization and before routing so
// the flags routing sees match what was just rendered.
func (g *Grid) EvaluateAll(ctx *Context) {
	for _, row := range g.rows {
		for _, e := range row {
			e.EvaluateRequirement(ctx)
		}
	}
}

// Serialize maps the grid to its wire shape. Hidden elements are
// omitted and rows left empty by omission disappear entirely; the
// output never contains an empty row.
func (g *Grid) Serialize(ctx *Context) *WireGrid {
	wire := &WireGrid{}
	for _, row := range g.rows {
		var out []WireElement
		for _, e := range row {
			if we, ok := e.serialize(ctx); ok {
				out = append(out, we)
			}
		}
		if len(out) > 0 {
			wire.Rows = append(wire.Rows, out)
		}
	}
	return wire
}

// find returns the first element whose token matches, scanning rows
// top-to-bottom and columns left-to-right.
func (g *Grid) find(token string) *Element {
	for _, row := range g.rows {
		for _, e := range row {
			if e.token != "" && e.token == token {
				return e
			}
		}
	}
	return nil
}
