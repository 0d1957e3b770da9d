package preview

import "github.com/lawnchairsociety/tilegen/internal/layout"

// Frame types in the order a viewer receives them for one layout
const (
	FrameLayout = "layout"
	FramePlace  = "place"
	FrameDone   = "done"
)

// Frame is one JSON message on the preview socket.
type Frame struct {
	Type      string     `json:"type"`
	Header    *Header    `json:"header,omitempty"`
	Placement *Placement `json:"placement,omitempty"`
	Summary   *Summary   `json:"summary,omitempty"`
}

// Header opens a layout: grid size and the tiles placements refer to.
type Header struct {
	Size     int           `json:"size"`
	Seed     uint64        `json:"seed"`
	Strategy string        `json:"strategy"`
	Digest   string        `json:"digest"`
	Tiles    []layout.Tile `json:"tiles"`
}

// Placement is one collapse, Seq counting from 0.
type Placement struct {
	Seq  int `json:"seq"`
	X    int `json:"x"`
	Y    int `json:"y"`
	Tile int `json:"tile"`
}

// Summary closes a layout.
type Summary struct {
	Stats          layout.Stats      `json:"stats"`
	Contradictions []layout.Position `json:"contradictions"`
}

// Frames returns the full frame sequence for a layout.
func Frames(l *layout.Layout) []Frame {
	frames := make([]Frame, 0, len(l.Placements)+2)
	frames = append(frames, Frame{
		Type: FrameLayout,
		Header: &Header{
			Size:     l.Size,
			Seed:     l.Seed,
			Strategy: l.Strategy,
			Digest:   l.Digest(),
			Tiles:    l.Tiles,
		},
	})
	for i, p := range l.Placements {
		frames = append(frames, Frame{
			Type:      FramePlace,
			Placement: &Placement{Seq: i, X: p.X, Y: p.Y, Tile: p.Tile},
		})
	}

	contradictions := l.Contradictions
	if contradictions == nil {
		contradictions = []layout.Position{}
	}
	frames = append(frames, Frame{
		Type:    FrameDone,
		Summary: &Summary{Stats: l.Stats, Contradictions: contradictions},
	})
	return frames
}
