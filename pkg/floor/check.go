package floor

import (
	"errors"
	"fmt"
)

// Check verifies that every room has a positive size, lies inside the canvas
// and shares no area with another room. Title and scale labels are exempt
// from the overlap test. The returned error joins every violation found.
func Check(l Layout) error {
	var errs []error
	if l.CanvasWidth <= 0 || l.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas %gx%g is not positive", l.CanvasWidth, l.CanvasHeight))
	}
	for _, r := range l.Rooms {
		if r.Width <= 0 || r.Height <= 0 {
			errs = append(errs, fmt.Errorf("room %s: size %gx%g is not positive", r.ID, r.Width, r.Height))
		}
		if r.X < 0 || r.Y < 0 || r.Right() > l.CanvasWidth || r.Bottom() > l.CanvasHeight {
			errs = append(errs, fmt.Errorf("room %s: extends outside the %gx%g canvas", r.ID, l.CanvasWidth, l.CanvasHeight))
		}
	}
	for i, a := range l.Rooms {
		if a.Kind.Decorative() {
			continue
		}
		for _, b := range l.Rooms[i+1:] {
			if !b.Kind.Decorative() && a.Intersects(b.Rect) {
				errs = append(errs, fmt.Errorf("rooms %s and %s overlap", a.ID, b.ID))
			}
		}
	}
	return errors.Join(errs...)
}
