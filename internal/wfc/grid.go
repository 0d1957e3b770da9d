package wfc

// Grid maps between linear cell indices and 2D coordinates.
// Cells are stored row-major: index = y*Width + x.
type Grid struct {
	Width, Height int
}

// NewGrid creates a square grid of size x size cells
func NewGrid(size int) Grid {
	return Grid{Width: size, Height: size}
}

// Len returns the number of cells in the grid
func (g Grid) Len() int {
	return g.Width * g.Height
}

// Index converts a coordinate to its linear index
func (g Grid) Index(x, y int) int {
	return y*g.Width + x
}

// Coords converts a linear index back to its coordinate
func (g Grid) Coords(i int) (x, y int) {
	return i % g.Width, i / g.Width
}

// InBounds reports whether the coordinate lies inside the grid
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Neighbor returns the index of the cell next to i in the given direction.
// The second result is false when that cell would fall outside the grid.
func (g Grid) Neighbor(i int, dir Direction) (int, bool) {
	x, y := g.Coords(i)
	dx, dy := dir.Offset()
	nx, ny := x+dx, y+dy
	if !g.InBounds(nx, ny) {
		return 0, false
	}
	return g.Index(nx, ny), true
}

// Center returns the index of the middle cell
func (g Grid) Center() int {
	return g.Index(g.Width/2, g.Height/2)
}
