package wfc

// Vec3 is a position in world space.
type Vec3 struct {
	X, Y, Z float64
}

// Sink receives every tile the solver places.
// Place is called synchronously from inside a collapse and must not retain
// the model beyond the call.
type Sink interface {
	Place(model Model, at Vec3)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(model Model, at Vec3)

// Place calls f(model, at)
func (f SinkFunc) Place(model Model, at Vec3) {
	f(model, at)
}

// discardSink drops every placement.
type discardSink struct{}

func (discardSink) Place(Model, Vec3) {}

// worldPosition maps a grid coordinate to world space: one unit per cell on the z=0 plane.
func worldPosition(x, y int) Vec3 {
	return Vec3{X: float64(x), Y: float64(y), Z: 0}
}
