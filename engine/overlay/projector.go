package overlay

import (
	"sync"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
)

// DefaultTiltFactor converts camera height above the reference plane into the
// cosmetic overlay tilt, in degrees per world unit.
const DefaultTiltFactor float32 = 0.5

// MaxTiltDeg clamps the cosmetic tilt.
const MaxTiltDeg float32 = 15.0

// Projection is the per-frame screen-space placement of one overlay anchor.
type Projection struct {
	// X and Y are pixel coordinates with the origin at the top-left.
	X, Y float32

	// Depth is the NDC depth component; the anchor is visible only while
	// Depth < 1.
	Depth float32

	// Visible reports whether the overlay should be shown this frame.
	Visible bool

	// TiltDeg is the cosmetic rotation, proportional to camera height above
	// the reference plane. Presentation only, never used for hit-testing.
	TiltDeg float32
}

// anchor couples a tracked world point with its per-frame output callback.
type anchor struct {
	world common.Vec3
	fn    func(Projection)
}

// projectorImpl is the implementation of the Projector interface.
type projectorImpl struct {
	mu *sync.Mutex

	camera camera.Camera
	width  int
	height int

	tiltFactor      float32
	referenceHeight float32

	anchors map[string]*anchor
}

// Projector converts world-space points into viewport pixel coordinates each
// frame for overlay UI placement. Anchors carry an output callback invoked
// once per Tick with the projected position; no state is retained between
// frames beyond the anchor's source point.
type Projector interface {
	// Project maps one world point through the camera's view-projection to
	// pixel coordinates and reports visibility.
	//
	// Parameters:
	//   - world: the world-space point
	//
	// Returns:
	//   - Projection: the screen-space placement
	Project(world common.Vec3) Projection

	// AddAnchor registers a tracked point. The callback is invoked on every
	// Tick with the anchor's current projection. Re-adding a name replaces
	// the previous anchor.
	//
	// Parameters:
	//   - name: the anchor key
	//   - world: the world-space point to track
	//   - fn: the per-frame output callback
	AddAnchor(name string, world common.Vec3, fn func(Projection))

	// RemoveAnchor drops a tracked point.
	//
	// Parameters:
	//   - name: the anchor key
	RemoveAnchor(name string)

	// Tick projects every anchor and invokes its callback. Runs once per
	// render tick.
	Tick()

	// SetViewport updates the pixel dimensions used for projection.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height int)
}

var _ Projector = &projectorImpl{}

// ProjectorOption is a functional option for configuring a Projector.
type ProjectorOption func(*projectorImpl)

// WithTiltFactor sets the degrees-per-world-unit factor for the cosmetic
// overlay tilt.
//
// Parameters:
//   - factor: degrees of tilt per unit of camera height
//
// Returns:
//   - ProjectorOption: functional option to set the tilt factor
func WithTiltFactor(factor float32) ProjectorOption {
	return func(p *projectorImpl) {
		p.tiltFactor = factor
	}
}

// WithReferenceHeight sets the world-space height of the reference plane the
// tilt is measured from.
//
// Parameters:
//   - height: the reference plane height
//
// Returns:
//   - ProjectorOption: functional option to set the reference height
func WithReferenceHeight(height float32) ProjectorOption {
	return func(p *projectorImpl) {
		p.referenceHeight = height
	}
}

// NewProjector creates a Projector for a camera and viewport. Panics if cam
// is nil.
//
// Parameters:
//   - cam: the camera providing the view-projection
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//   - options: functional options to configure the projector
//
// Returns:
//   - Projector: the newly created projector
func NewProjector(cam camera.Camera, width, height int, options ...ProjectorOption) Projector {
	if cam == nil {
		panic("projector requires a camera")
	}
	p := &projectorImpl{
		mu:         &sync.Mutex{},
		camera:     cam,
		width:      width,
		height:     height,
		tiltFactor: DefaultTiltFactor,
		anchors:    map[string]*anchor{},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *projectorImpl) Project(world common.Vec3) Projection {
	p.mu.Lock()
	width, height := p.width, p.height
	tiltFactor, refHeight := p.tiltFactor, p.referenceHeight
	p.mu.Unlock()

	vp := p.camera.ViewProjectionMatrix()
	ndc, w := common.TransformPoint(vp[:], world)

	proj := Projection{
		X:     (ndc[0]*0.5 + 0.5) * float32(width),
		Y:     (ndc[1]*-0.5 + 0.5) * float32(height),
		Depth: ndc[2],
	}

	// Points behind the camera flip sign through the perspective divide and
	// are never visible.
	proj.Visible = w > 0 && proj.Depth < 1

	if ctrl := p.camera.Controller(); ctrl != nil {
		tilt := (ctrl.Position()[1] - refHeight) * tiltFactor
		if tilt > MaxTiltDeg {
			tilt = MaxTiltDeg
		}
		if tilt < -MaxTiltDeg {
			tilt = -MaxTiltDeg
		}
		proj.TiltDeg = tilt
	}
	return proj
}

func (p *projectorImpl) AddAnchor(name string, world common.Vec3, fn func(Projection)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anchors[name] = &anchor{world: world, fn: fn}
}

func (p *projectorImpl) RemoveAnchor(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.anchors, name)
}

func (p *projectorImpl) Tick() {
	p.mu.Lock()
	tracked := make([]*anchor, 0, len(p.anchors))
	for _, a := range p.anchors {
		tracked = append(tracked, a)
	}
	p.mu.Unlock()

	for _, a := range tracked {
		if a.fn != nil {
			a.fn(p.Project(a.world))
		}
	}
}

func (p *projectorImpl) SetViewport(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
	p.height = height
}
