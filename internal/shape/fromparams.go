package shape

// FromParams reconstructs a shape of the given tag from a raw parameter
// vector in the same layout Params() returns. Used by optimizer strategies
// that search the parameter space directly as a flat vector (spec.md §6,
// SPEC_FULL.md §3 Mayfly strategy) instead of through Mutate.
func FromParams(tag Tag, params []int32) Shape {
	switch tag {
	case Rectangle:
		return &RectangleShape{X1: int(params[0]), Y1: int(params[1]), X2: int(params[2]), Y2: int(params[3])}
	case RotatedRectangle:
		return &RotatedRectangleShape{X1: int(params[0]), Y1: int(params[1]), X2: int(params[2]), Y2: int(params[3]), AngleDeg: clampAngle(int(params[4]))}
	case Triangle:
		return &TriangleShape{X1: int(params[0]), Y1: int(params[1]), X2: int(params[2]), Y2: int(params[3]), X3: int(params[4]), Y3: int(params[5])}
	case Ellipse:
		return &EllipseShape{CX: int(params[0]), CY: int(params[1]), RX: int(params[2]), RY: int(params[3])}
	case RotatedEllipse:
		return &RotatedEllipseShape{CX: int(params[0]), CY: int(params[1]), RX: int(params[2]), RY: int(params[3]), AngleDeg: clampAngle(int(params[4]))}
	case Circle:
		return &CircleShape{CX: int(params[0]), CY: int(params[1]), R: int(params[2])}
	case Line:
		return &LineShape{X1: int(params[0]), Y1: int(params[1]), X2: int(params[2]), Y2: int(params[3])}
	case QuadraticBezier:
		return &QuadraticBezierShape{CX: int(params[0]), CY: int(params[1]), X1: int(params[2]), Y1: int(params[3]), X2: int(params[4]), Y2: int(params[5])}
	case Polyline:
		n := len(params) / 2
		xs := make([]int, n)
		ys := make([]int, n)
		for i := 0; i < n; i++ {
			xs[i] = int(params[2*i])
			ys[i] = int(params[2*i+1])
		}
		return &PolylineShape{X: xs, Y: ys}
	default:
		panic("shape: unknown tag")
	}
}
