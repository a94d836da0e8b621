package tui

// layout is the size of both panels, content only; each panel adds a
// one-cell border on every side.
type layout struct {
	listW    int
	previewW int
	panelH   int
}

// newLayout gives the list 40% of the width. The input row, the footer and
// the panel borders take four rows.
func newLayout(width, height int) layout {
	listOuter := width * 2 / 5
	return layout{
		listW:    max(listOuter-2, 20),
		previewW: max(width-listOuter-2, 20),
		panelH:   max(height-4, 5),
	}
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps a cell to a panel, and for the list to the result index
// under it given the current scroll offset.
func (l layout) hitTest(x, y, offset int) (mouseRegion, int) {
	top := 2 // input row + top border
	if y < top || y >= top+l.panelH {
		return regionNone, -1
	}
	switch {
	case x >= 1 && x <= l.listW:
		return regionList, offset + (y-top)/linesPerItem
	case x >= l.listW+3:
		return regionPreview, -1
	}
	return regionNone, -1
}
