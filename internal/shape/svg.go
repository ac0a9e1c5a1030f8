package shape

import "fmt"

// svgf is a thin fmt.Sprintf wrapper kept in one place so every shape's SVG
// fragment is built the same way.
func svgf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
