package shape

// NewRandom constructs a random shape of the given tag within b, per the
// construction rules in spec.md §4.4.
func NewRandom(tag Tag, b Bounds, rnd RNG) Shape {
	switch tag {
	case Rectangle:
		return NewRandomRectangle(b, rnd)
	case RotatedRectangle:
		return NewRandomRotatedRectangle(b, rnd)
	case Triangle:
		return NewRandomTriangle(b, rnd)
	case Ellipse:
		return NewRandomEllipse(b, rnd)
	case RotatedEllipse:
		return NewRandomRotatedEllipse(b, rnd)
	case Circle:
		return NewRandomCircle(b, rnd)
	case Line:
		return NewRandomLine(b, rnd)
	case QuadraticBezier:
		return NewRandomQuadraticBezier(b, rnd)
	case Polyline:
		return NewRandomPolyline(b, rnd)
	default:
		panic("shape: unknown tag")
	}
}

// AllTags is the closed enumeration of every shape kind, useful as a
// default value for the optimizer's shapeTypes set.
var AllTags = []Tag{
	Rectangle, RotatedRectangle, Triangle, Ellipse, RotatedEllipse,
	Circle, Line, QuadraticBezier, Polyline,
}
