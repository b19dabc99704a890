package loader

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"

	"github.com/venuelab/walkview/common"
	"github.com/venuelab/walkview/engine/camera"
	"github.com/venuelab/walkview/engine/light"
	"github.com/venuelab/walkview/engine/scene"
)

// Stage identifies a coarse phase of the load pipeline for progress reporting.
type Stage int

const (
	// StageFetched fires after the asset bytes arrive.
	StageFetched Stage = iota

	// StageParsed fires after the document and all buffers decode.
	StageParsed

	// StageMeshes fires after geometry extraction completes.
	StageMeshes

	// StageReady fires when the Result is fully assembled.
	StageReady
)

// String returns the stage name for logging.
func (s Stage) String() string {
	switch s {
	case StageFetched:
		return "fetched"
	case StageParsed:
		return "parsed"
	case StageMeshes:
		return "meshes"
	case StageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// ProgressFunc receives coarse load progress. Detail carries a short
// human-readable note such as the byte count or mesh count.
type ProgressFunc func(stage Stage, detail string)

// Result is the CPU-side output of a venue load: the baked node tree plus the
// lights and named camera anchors found in the document.
type Result struct {
	// Root is the scene tree with world transforms and world-space mesh
	// positions baked in.
	Root *scene.Node

	// Lights are the KHR_lights_punctual lights, positioned in world space.
	Lights []light.Light

	// Anchors are named camera poses taken from camera-bearing nodes, keyed
	// by node name.
	Anchors map[string]camera.CameraPose
}

// loaderImpl is the implementation of the Loader interface.
type loaderImpl struct {
	mu sync.RWMutex

	client   *http.Client
	progress ProgressFunc
	workers  int

	resultCache map[string]*Result
}

// Loader imports a venue model from a glTF/GLB asset and caches the result.
// Assets may live on disk or behind an HTTP(S) URL; external buffer URIs
// resolve relative to the asset location.
type Loader interface {
	// Load fetches, parses, and extracts a venue asset. If the asset is
	// already cached (by source), the cached Result is returned.
	//
	// Parameters:
	//   - ctx: context governing the fetch and buffer resolution
	//   - source: a file path or http(s) URL to a .gltf/.glb asset
	//
	// Returns:
	//   - *Result: the loaded venue data
	//   - error: error if loading fails
	Load(ctx context.Context, source string) (*Result, error)

	// Get retrieves a cached result by source. Returns nil if not found.
	//
	// Parameters:
	//   - source: the cache key to look up
	//
	// Returns:
	//   - *Result: the cached result or nil
	Get(source string) *Result
}

var _ Loader = &loaderImpl{}

// LoaderOption is a functional option for configuring a Loader.
type LoaderOption func(*loaderImpl)

// WithHTTPClient sets the HTTP client used for URL sources.
//
// Parameters:
//   - client: the client to use for asset and buffer fetches
//
// Returns:
//   - LoaderOption: functional option to set the HTTP client
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *loaderImpl) {
		if client != nil {
			l.client = client
		}
	}
}

// WithProgress sets the progress callback invoked at each load stage.
//
// Parameters:
//   - fn: the progress callback
//
// Returns:
//   - LoaderOption: functional option to set the progress callback
func WithProgress(fn ProgressFunc) LoaderOption {
	return func(l *loaderImpl) {
		l.progress = fn
	}
}

// WithWorkers sets the number of geometry extraction workers.
//
// Parameters:
//   - n: worker count, must be positive
//
// Returns:
//   - LoaderOption: functional option to set the worker count
func WithWorkers(n int) LoaderOption {
	return func(l *loaderImpl) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLoader creates a new Loader with the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderOption) Loader {
	l := &loaderImpl{
		client:      http.DefaultClient,
		workers:     runtime.NumCPU(),
		resultCache: make(map[string]*Result),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loaderImpl) Load(ctx context.Context, source string) (*Result, error) {
	l.mu.RLock()
	if cached, ok := l.resultCache[source]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	l.report(StageFetched, fmt.Sprintf("%d bytes", len(data)))

	parser := newGLTFParser(l.resolverFor(source))
	if err := parser.Parse(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	doc := parser.Document()
	l.report(StageParsed, fmt.Sprintf("%d nodes, %d meshes", len(doc.Nodes), len(doc.Meshes)))

	result, err := l.extract(doc, parser)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", source, err)
	}
	l.report(StageReady, source)

	l.mu.Lock()
	l.resultCache[source] = result
	l.mu.Unlock()

	return result, nil
}

func (l *loaderImpl) Get(source string) *Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.resultCache[source]
}

func (l *loaderImpl) report(stage Stage, detail string) {
	if l.progress != nil {
		l.progress(stage, detail)
	}
}

// fetch retrieves the asset bytes from an HTTP(S) URL or the filesystem.
func (l *loaderImpl) fetch(ctx context.Context, source string) ([]byte, error) {
	if isHTTPSource(source) {
		return l.fetchURL(ctx, source)
	}
	return os.ReadFile(source)
}

func (l *loaderImpl) fetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// resolverFor builds the external buffer resolver for a source: relative URL
// resolution for HTTP assets, directory-relative paths for files.
func (l *loaderImpl) resolverFor(source string) bufferResolver {
	if isHTTPSource(source) {
		base, err := url.Parse(source)
		if err != nil {
			return nil
		}
		return func(ctx context.Context, uri string) ([]byte, error) {
			ref, err := url.Parse(uri)
			if err != nil {
				return nil, err
			}
			return l.fetchURL(ctx, base.ResolveReference(ref).String())
		}
	}

	baseDir := filepath.Dir(source)
	return func(_ context.Context, uri string) ([]byte, error) {
		return os.ReadFile(filepath.Join(baseDir, uri))
	}
}

func isHTTPSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// --- Extraction ---

// extract converts a parsed document into a Result: node tree with baked
// world transforms, world-space geometry, punctual lights, and camera anchors.
func (l *loaderImpl) extract(doc *gltfDocument, parser gltfParser) (*Result, error) {
	result := &Result{
		Anchors: make(map[string]camera.CameraPose),
	}

	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("default scene index %d out of range", sceneIdx)
	}
	gscene := &doc.Scenes[sceneIdx]

	root := &scene.Node{Name: gscene.Name}
	if root.Name == "" {
		root.Name = "scene"
	}
	common.Identity(root.Local[:])
	common.Identity(root.World[:])

	// Build the node tree first so every mesh task sees its final world
	// transform.
	type meshJob struct {
		node    *scene.Node
		meshIdx int
	}
	var jobs []meshJob

	var build func(parent *scene.Node, nodeIdx int) error
	build = func(parent *scene.Node, nodeIdx int) error {
		if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", nodeIdx)
		}
		gnode := &doc.Nodes[nodeIdx]

		n := &scene.Node{Name: gnode.Name}
		nodeLocalMatrix(gnode, n.Local[:])
		parent.AddChild(n)
		common.Mul4(n.World[:], parent.World[:], n.Local[:])

		if gnode.Mesh != nil {
			jobs = append(jobs, meshJob{node: n, meshIdx: *gnode.Mesh})
		}
		if gnode.Camera != nil {
			result.Anchors[anchorName(doc, gnode)] = anchorPose(n.World[:])
		}
		if gnode.Extensions != nil && gnode.Extensions.KHRLightsPunctual != nil {
			lt, err := buildLight(doc, gnode.Extensions.KHRLightsPunctual.Light, n.World[:])
			if err != nil {
				return err
			}
			result.Lights = append(result.Lights, lt)
		}

		for _, child := range gnode.Children {
			if err := build(n, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, nodeIdx := range gscene.Nodes {
		if err := build(root, nodeIdx); err != nil {
			return nil, err
		}
	}

	// Phase 2: parallel geometry extraction. Each task reads one node's
	// accessors and bakes positions into world space. A WaitGroup provides
	// the barrier since pool.Wait() blocks until workers idle-exit.
	pool := worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for i, job := range jobs {
		wg.Add(1)
		j := job
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				mesh, err := extractMesh(doc, parser, j.meshIdx, j.node.World[:])
				if err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("node %q: %w", j.node.Name, err)
					}
					errMu.Unlock()
					return nil, err
				}
				j.node.Mesh = mesh
				return nil, nil
			},
		})
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	l.report(StageMeshes, fmt.Sprintf("%d meshes extracted", len(jobs)))

	result.Root = root
	return result, nil
}

// nodeLocalMatrix writes the node's local transform: the explicit matrix when
// present, otherwise composed from TRS with glTF defaults.
func nodeLocalMatrix(gnode *gltfNode, out []float32) {
	if gnode.Matrix != nil {
		copy(out, gnode.Matrix[:])
		return
	}

	t := common.Vec3{}
	if gnode.Translation != nil {
		t = common.Vec3(*gnode.Translation)
	}
	q := [4]float32{0, 0, 0, 1}
	if gnode.Rotation != nil {
		q = *gnode.Rotation
	}
	s := common.Vec3{1, 1, 1}
	if gnode.Scale != nil {
		s = common.Vec3(*gnode.Scale)
	}
	common.ComposeTRS(out, t, q, s)
}

// extractMesh merges a glTF mesh's triangle primitives into one world-space
// mesh. Non-triangle primitives are skipped with a log line.
func extractMesh(doc *gltfDocument, parser gltfParser, meshIdx int, world []float32) (*scene.Mesh, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	gmesh := &doc.Meshes[meshIdx]

	mesh := &scene.Mesh{}
	for pi := range gmesh.Primitives {
		prim := &gmesh.Primitives[pi]

		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			log.Printf("loader: skipping non-triangle primitive %d of mesh %q (mode %d)", pi, gmesh.Name, *prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, fmt.Errorf("primitive %d of mesh %q has no POSITION attribute", pi, gmesh.Name)
		}

		positions, err := parser.ReadVec3Accessor(posIdx)
		if err != nil {
			return nil, err
		}

		base := uint32(len(mesh.Positions))
		for _, p := range positions {
			wp, _ := common.TransformPoint(world, common.Vec3(p))
			mesh.Positions = append(mesh.Positions, wp)
		}

		if prim.Indices != nil {
			indices, err := parser.ReadIndicesAccessor(*prim.Indices)
			if err != nil {
				return nil, err
			}
			for _, idx := range indices {
				// An index past the position count would panic on first pick.
				if idx >= uint32(len(positions)) {
					return nil, fmt.Errorf("primitive %d of mesh %q: index %d exceeds %d positions",
						pi, gmesh.Name, idx, len(positions))
				}
				mesh.Indices = append(mesh.Indices, base+idx)
			}
		} else {
			// Unindexed geometry: every three positions form a triangle.
			for i := range positions {
				mesh.Indices = append(mesh.Indices, base+uint32(i))
			}
		}
	}

	mesh.ComputeBounds()
	return mesh, nil
}

// buildLight converts a KHR_lights_punctual definition into an engine light
// positioned and oriented by the node's world transform.
func buildLight(doc *gltfDocument, lightIdx int, world []float32) (light.Light, error) {
	if doc.Extensions == nil || doc.Extensions.KHRLightsPunctual == nil {
		return nil, fmt.Errorf("node references light %d but the document has no %s extension", lightIdx, gltfKHRLightsPunctual)
	}
	defs := doc.Extensions.KHRLightsPunctual.Lights
	if lightIdx < 0 || lightIdx >= len(defs) {
		return nil, fmt.Errorf("light index %d out of range", lightIdx)
	}
	def := &defs[lightIdx]

	var lightType light.LightType
	switch def.Type {
	case gltfLightTypeDirectional:
		lightType = light.LightTypeDirectional
	case gltfLightTypePoint:
		lightType = light.LightTypePoint
	case gltfLightTypeSpot:
		lightType = light.LightTypeSpot
	default:
		return nil, fmt.Errorf("unsupported light type %q", def.Type)
	}

	opts := []light.LightBuilderOption{
		light.WithName(def.Name),
		light.WithPosition(worldTranslation(world)),
		light.WithDirection(worldForward(world)),
	}
	if def.Color != nil {
		opts = append(opts, light.WithColor(common.Vec3(*def.Color)))
	}
	if def.Intensity != nil {
		opts = append(opts, light.WithIntensity(*def.Intensity))
	}
	if def.Range != nil {
		opts = append(opts, light.WithRange(*def.Range))
	}
	if lightType == light.LightTypeSpot {
		// glTF cone angles are radians; the engine works in degrees with a
		// penumbra fraction.
		inner := float32(0)
		outer := math32.Pi / 4
		if def.Spot != nil {
			if def.Spot.InnerConeAngle != nil {
				inner = *def.Spot.InnerConeAngle
			}
			if def.Spot.OuterConeAngle != nil {
				outer = *def.Spot.OuterConeAngle
			}
		}
		penumbra := float32(0)
		if outer > 0 {
			penumbra = 1 - inner/outer
		}
		opts = append(opts, light.WithSpotCone(outer*180/math32.Pi, penumbra))
	}

	return light.NewLight(lightType, opts...), nil
}

// anchorName prefers the camera's own name over the node name.
func anchorName(doc *gltfDocument, gnode *gltfNode) string {
	var cameraName string
	if gnode.Camera != nil && *gnode.Camera >= 0 && *gnode.Camera < len(doc.Cameras) {
		cameraName = doc.Cameras[*gnode.Camera].Name
	}
	return common.Coalesce(cameraName, gnode.Name)
}

// anchorLookDistance places the anchor target along the camera's forward
// axis. Orbit flights only need the direction, not a surface hit.
const anchorLookDistance float32 = 10

// anchorPose derives a camera pose from a camera node's world transform. The
// glTF camera looks down its local -Z axis.
func anchorPose(world []float32) camera.CameraPose {
	eye := worldTranslation(world)
	target := eye.Add(worldForward(world).Scale(anchorLookDistance))
	return camera.PoseFrom(eye, target)
}

// worldTranslation extracts the translation column of a column-major matrix.
func worldTranslation(world []float32) common.Vec3 {
	return common.Vec3{world[12], world[13], world[14]}
}

// worldForward is the node's -Z axis in world space.
func worldForward(world []float32) common.Vec3 {
	f := common.Vec3{-world[8], -world[9], -world[10]}
	if f.LengthSq() == 0 {
		return common.Vec3{0, 0, -1}
	}
	return f.Normalize()
}
