package light

// Buckets groups scene lights by kind. The viewer builds this once after the
// venue asset loads; the tuning panel addresses lights through it by name.
type Buckets struct {
	Point       []Light
	Spot        []Light
	Directional []Light
}

// BucketByType sorts lights into per-kind buckets, preserving input order
// within each bucket.
//
// Parameters:
//   - lights: the lights to classify
//
// Returns:
//   - Buckets: the grouped lights
func BucketByType(lights []Light) Buckets {
	var b Buckets
	for _, l := range lights {
		switch l.Type() {
		case LightTypePoint:
			b.Point = append(b.Point, l)
		case LightTypeSpot:
			b.Spot = append(b.Spot, l)
		case LightTypeDirectional:
			b.Directional = append(b.Directional, l)
		}
	}
	return b
}

// All returns every bucketed light in directional, point, spot order.
//
// Returns:
//   - []Light: all lights across buckets
func (b Buckets) All() []Light {
	out := make([]Light, 0, len(b.Directional)+len(b.Point)+len(b.Spot))
	out = append(out, b.Directional...)
	out = append(out, b.Point...)
	out = append(out, b.Spot...)
	return out
}

// FindByName returns the first bucketed light whose name matches exactly.
//
// Parameters:
//   - name: the light name to look up
//
// Returns:
//   - Light: the matching light, or nil if none
func (b Buckets) FindByName(name string) Light {
	for _, l := range b.All() {
		if l.Name() == name {
			return l
		}
	}
	return nil
}
