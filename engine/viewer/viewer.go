package viewer

import (
	"log"
	"sync"
	"time"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
	"github.com/venuelab/walkview/engine/overlay"
	"github.com/venuelab/walkview/engine/picker"
	"github.com/venuelab/walkview/engine/profiler"
	"github.com/venuelab/walkview/engine/render"
	"github.com/venuelab/walkview/engine/renderer"
	"github.com/venuelab/walkview/engine/scene"
	"github.com/venuelab/walkview/engine/window"
)

// Named views every venue exposes. Missing anchors log and no-op.
const (
	ViewTop  = "top view"
	ViewFree = "free view"
)

// viewerImpl is the implementation of the Viewer interface.
// Coordinates the tick, render, and window threads.
type viewerImpl struct {
	mu sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	config   render.Config

	scene   scene.Scene
	camera  camera.Camera
	flight  camera.FlightAnimator
	picker  picker.Picker
	overlay overlay.Projector

	tickRate       time.Duration
	flightDuration time.Duration
	selectionZoom  float32

	width  int
	height int

	// freePose is the camera pose saved before a selection flight; clearing
	// the selection flies back to it and unlocks the camera.
	freePose *camera.CameraPose

	pointerDown    picker.Pointer
	hasPointerDown bool

	// Middle-mouse orbit drag state.
	orbiting   bool
	lastCursor [2]int32

	// keyState tracks held movement keys, applied once per tick.
	keyState map[uint32]bool

	profiler *profiler.Profiler
}

// Viewer is the walkthrough controller: it owns the scene, camera, flights,
// picking, and overlay projection, and orchestrates the tick and render loops
// when a window and renderer are attached.
type Viewer interface {
	// Scene returns the loaded venue scene.
	//
	// Returns:
	//   - scene.Scene: the scene instance
	Scene() scene.Scene

	// Camera returns the walkthrough camera.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// Overlay returns the screen-space projector for overlay anchors.
	//
	// Returns:
	//   - overlay.Projector: the projector instance
	Overlay() overlay.Projector

	// Config returns the render configuration layer.
	//
	// Returns:
	//   - render.Config: the render configuration
	Config() render.Config

	// HandlePointerDown records the press position of a potential tap.
	//
	// Parameters:
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	HandlePointerDown(x, y float32)

	// HandlePointerUp completes the gesture. A tap on a selectable group
	// selects it and starts a framing flight; a tap on empty space clears the
	// selection; a drag does nothing.
	//
	// Parameters:
	//   - x: pointer x in pixels
	//   - y: pointer y in pixels
	HandlePointerUp(x, y float32)

	// FlyToGroup selects a group and starts an eased flight that retargets
	// the camera onto it, zooms in, and locks user input on arrival.
	//
	// Parameters:
	//   - g: the group to frame
	//
	// Returns:
	//   - uint64: the flight generation
	FlyToGroup(g *scene.SelectableGroup) uint64

	// FlyToView starts a flight to a named camera anchor. Unknown names log
	// a diagnostic and leave the camera untouched.
	//
	// Parameters:
	//   - name: the anchor name, e.g. ViewTop or ViewFree
	//
	// Returns:
	//   - bool: true when the anchor exists and the flight started
	FlyToView(name string) bool

	// ClearSelection deselects the active group and flies back to the pose
	// held before selection, unlocking the camera on arrival.
	ClearSelection()

	// SetViewport updates the pixel dimensions used for picking and overlay
	// projection.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height int)

	// Tick advances flights, recomputes camera matrices, and projects
	// overlay anchors. Runs once per engine tick.
	Tick()

	// SetTickRate sets the tick loop rate in ticks per second. Takes effect
	// immediately when the viewer is running.
	//
	// Parameters:
	//   - fps: ticks per second, non-positive values reset to 60
	SetTickRate(fps float64)

	// Run starts the tick and render loops and blocks in the window message
	// loop until the window closes. Requires an attached window.
	Run()

	// Quit signals all viewer goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Viewer = &viewerImpl{}

// NewViewer creates a Viewer over a scene and camera. Panics if either is
// nil. A window and renderer are optional; without them the viewer runs
// headless and is driven by explicit Tick calls.
//
// Parameters:
//   - sc: the venue scene
//   - cam: the walkthrough camera
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the newly created viewer
func NewViewer(sc scene.Scene, cam camera.Camera, options ...ViewerOption) Viewer {
	if sc == nil || cam == nil {
		panic("viewer requires a scene and a camera")
	}
	v := &viewerImpl{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scene:           sc,
		camera:          cam,
		config:          render.NewConfig(),
		tickRate:        time.Second / 60,
		flightDuration:  1200 * time.Millisecond,
		selectionZoom:   0.6,
		width:           1280,
		height:          720,
		keyState:        map[uint32]bool{},
	}

	for _, opt := range options {
		opt(v)
	}

	if v.flight == nil {
		v.flight = camera.NewFlightAnimator(cam.Controller())
	}
	if v.picker == nil {
		v.picker = picker.NewPicker(sc, cam)
	}
	if v.overlay == nil {
		v.overlay = overlay.NewProjector(cam, v.width, v.height)
	}

	v.config.OnChange(func(snap render.Snapshot) {
		if v.renderer != nil {
			v.renderer.ApplySnapshot(snap)
		}
	})
	if v.renderer != nil {
		v.renderer.ApplySnapshot(v.config.Snapshot())
	}

	if v.window != nil {
		v.bindWindow()
	}
	return v
}

// bindWindow wires window input events into camera control and picking.
func (v *viewerImpl) bindWindow() {
	win := v.window
	v.width = win.Width()
	v.height = win.Height()

	win.SetResizeCallback(func(width, height int) {
		if v.renderer != nil {
			v.renderer.Resize(width, height)
		}
		v.SetViewport(width, height)
	})

	win.SetScrollCallback(func(delta float32) {
		v.camera.Controller().Zoom(delta)
	})

	win.SetLeftMouseDownCallback(func(x, y int32) {
		v.HandlePointerDown(float32(x), float32(y))
	})
	win.SetLeftMouseUpCallback(func(x, y int32) {
		v.HandlePointerUp(float32(x), float32(y))
	})

	// Middle mouse orbits; the cursor delta drives azimuth and elevation.
	win.SetMiddleMouseDownCallback(func(x, y int32) {
		v.mu.Lock()
		v.orbiting = true
		v.lastCursor = [2]int32{x, y}
		v.mu.Unlock()
	})
	win.SetMiddleMouseUpCallback(func(x, y int32) {
		v.mu.Lock()
		v.orbiting = false
		v.mu.Unlock()
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		v.mu.Lock()
		if !v.orbiting {
			v.mu.Unlock()
			return
		}
		dx := float32(x - v.lastCursor[0])
		dy := float32(y - v.lastCursor[1])
		v.lastCursor = [2]int32{x, y}
		v.mu.Unlock()

		ctrl := v.camera.Controller()
		sensitivity := ctrl.MouseSensitivity()
		ctrl.Rotate(-dx*sensitivity, dy*sensitivity)
	})

	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyT:
			v.FlyToView(ViewTop)
		case common.KeyF:
			v.FlyToView(ViewFree)
		case common.KeySpace:
			v.ClearSelection()
		default:
			v.mu.Lock()
			v.keyState[keyCode] = true
			v.mu.Unlock()
		}
	})
	win.SetKeyUpCallback(func(keyCode uint32) {
		v.mu.Lock()
		delete(v.keyState, keyCode)
		v.mu.Unlock()
	})
}

// applyHeldKeys pans the camera for the movement keys held this tick. Locked
// controllers ignore the pan calls, so flights are never disturbed.
func (v *viewerImpl) applyHeldKeys() {
	v.mu.Lock()
	if len(v.keyState) == 0 {
		v.mu.Unlock()
		return
	}
	held := make([]uint32, 0, len(v.keyState))
	for k := range v.keyState {
		held = append(held, k)
	}
	v.mu.Unlock()

	ctrl := v.camera.Controller()
	speed := ctrl.PanSpeed()
	for _, k := range held {
		switch k {
		case common.KeyW:
			ctrl.PanForward(speed)
		case common.KeyS:
			ctrl.PanForward(-speed)
		case common.KeyA:
			ctrl.PanRight(-speed)
		case common.KeyD:
			ctrl.PanRight(speed)
		case common.KeyE:
			ctrl.PanUp(speed)
		case common.KeyQ:
			ctrl.PanUp(-speed)
		}
	}
}

func (v *viewerImpl) Scene() scene.Scene         { return v.scene }
func (v *viewerImpl) Camera() camera.Camera      { return v.camera }
func (v *viewerImpl) Overlay() overlay.Projector { return v.overlay }
func (v *viewerImpl) Config() render.Config      { return v.config }

func (v *viewerImpl) HandlePointerDown(x, y float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pointerDown = picker.Pointer{X: x, Y: y}
	v.hasPointerDown = true
}

func (v *viewerImpl) HandlePointerUp(x, y float32) {
	v.mu.Lock()
	if !v.hasPointerDown {
		v.mu.Unlock()
		return
	}
	down := v.pointerDown
	v.hasPointerDown = false
	width, height := v.width, v.height
	v.mu.Unlock()

	up := picker.Pointer{X: x, Y: y}
	if picker.IsDrag(down, up) {
		return
	}

	if res := v.picker.Resolve(down, up, width, height); res != nil {
		v.FlyToGroup(res.Group)
		return
	}

	// A tap on empty space deselects.
	if v.scene.ActiveSelection() != nil {
		v.ClearSelection()
	}
}

func (v *viewerImpl) FlyToGroup(g *scene.SelectableGroup) uint64 {
	if g == nil {
		return v.flight.Generation()
	}

	ctrl := v.camera.Controller()
	pose := ctrl.Pose()

	v.mu.Lock()
	if v.freePose == nil {
		saved := pose
		v.freePose = &saved
	}
	duration, zoom := v.flightDuration, v.selectionZoom
	v.mu.Unlock()

	v.scene.SetActiveSelection(g)
	return v.flight.Start(camera.FlightRequest{
		To:             camera.PoseFromOffset(g.Centroid, pose.Offset),
		Duration:       duration,
		Locked:         true,
		ZoomMultiplier: zoom,
	})
}

func (v *viewerImpl) FlyToView(name string) bool {
	pose, ok := v.scene.AnchorPose(name)
	if !ok {
		log.Printf("viewer: no camera anchor named %q", name)
		return false
	}

	v.mu.Lock()
	duration := v.flightDuration
	v.freePose = nil
	v.mu.Unlock()

	v.scene.SetActiveSelection(nil)
	v.flight.Start(camera.FlightRequest{To: pose, Duration: duration})
	return true
}

func (v *viewerImpl) ClearSelection() {
	v.scene.SetActiveSelection(nil)

	v.mu.Lock()
	pose := v.freePose
	v.freePose = nil
	duration := v.flightDuration
	v.mu.Unlock()

	if pose == nil {
		v.camera.Controller().SetLocked(false)
		return
	}
	v.flight.Start(camera.FlightRequest{To: *pose, Duration: duration})
}

func (v *viewerImpl) SetViewport(width, height int) {
	v.mu.Lock()
	v.width = width
	v.height = height
	v.mu.Unlock()

	if height > 0 {
		v.camera.SetAspect(float32(width) / float32(height))
	}
	v.overlay.SetViewport(width, height)
}

func (v *viewerImpl) Tick() {
	v.applyHeldKeys()
	v.flight.Tick()
	v.camera.Update()
	v.overlay.Tick()
}

func (v *viewerImpl) Run() {
	if v.window == nil {
		panic("viewer cannot run without a window")
	}
	v.running = true
	v.wg.Add(3)
	go v.handleTick()
	go v.handleRender()
	go v.handleQuit()
	v.window.ProcessMessages()
	v.Quit()
	v.wg.Wait()
}

// Quit signals all viewer goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (v *viewerImpl) Quit() {
	v.quitOnce.Do(func() {
		v.running = false
		close(v.quitChannel)
	})
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Fires flights and overlay projection at the configured tick rate and
// listens for dynamic rate changes via tickRateChannel. Exits when the quit
// channel is closed.
func (v *viewerImpl) handleTick() {
	defer v.wg.Done()

	ticker := time.NewTicker(v.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-v.quitChannel:
			return
		case <-ticker.C:
			v.Tick()
		case newRate := <-v.tickRateChannel:
			ticker.Reset(newRate)
			v.tickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on
// recovery.
func (v *viewerImpl) handleRender() {
	defer v.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			v.Quit()
		}
	}()

	if v.renderer == nil {
		<-v.quitChannel
		return
	}

	for {
		select {
		case <-v.quitChannel:
			return
		default:
			if err := v.renderer.BeginFrame(); err == nil {
				v.renderer.EndFrame()
				v.renderer.Present()
			}
			if v.profiler != nil {
				v.profiler.Tick()
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (v *viewerImpl) handleQuit() {
	defer v.wg.Done()
	<-v.quitChannel
}

// SetTickRate sets the viewer tick rate in ticks per second.
// If the viewer is running, the change takes effect immediately.
func (v *viewerImpl) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if v.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case v.tickRateChannel <- newRate:
		default:
			select {
			case <-v.tickRateChannel:
			default:
			}
			v.tickRateChannel <- newRate
		}
	} else {
		v.tickRate = newRate
	}
}
