package scene

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
)

// fakeLoader hands out tickets and returns whatever results a test queues.
type fakeLoader struct {
	mu       sync.Mutex
	next     uint64
	requests []string
	results  []texture.Result
	closed   bool
}

func (f *fakeLoader) Request(source string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.requests = append(f.requests, source)
	return f.next
}

func (f *fakeLoader) Poll() []texture.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.results
	f.results = nil
	return out
}

func (f *fakeLoader) Pending() int { return 0 }

func (f *fakeLoader) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeLoader) finish(ticket uint64, source string, tex *common.TextureStagingData, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, texture.Result{Ticket: ticket, Source: source, Texture: tex, Err: err})
}

func solidTexture(source string) *common.TextureStagingData {
	return &common.TextureStagingData{Pixels: make([]byte, 4*2*4), Width: 4, Height: 2, Source: source}
}

func TestRoomLayout(t *testing.T) {
	room := NewRoomScene(WithSeed(7))
	if room.Kind() != KindRoom {
		t.Fatalf("expected room kind, got %v", room.Kind())
	}

	edges := room.Edges()
	if len(edges) != 12 {
		t.Fatalf("expected 12 room edges, got %d", len(edges))
	}
	var top float32
	for _, e := range edges {
		top = max(top, e.From[1], e.To[1])
		if math.Abs(float64(e.From[0])) != RoomWidth/2 || math.Abs(float64(e.From[2])) != RoomDepth/2 {
			t.Fatalf("edge corner off the box: %v", e.From)
		}
	}
	if top != RoomHeight {
		t.Fatalf("expected room height %d, got %v", RoomHeight, top)
	}

	structures := room.Structures()
	if len(structures) != StructureCount {
		t.Fatalf("expected %d structures, got %d", StructureCount, len(structures))
	}
	for i, s := range structures {
		if math.Abs(float64(s.Base[0])) > StructureSpread/2 || math.Abs(float64(s.Base[2])) > StructureSpread/2 {
			t.Fatalf("structure %d outside the spread: %v", i, s.Base)
		}
		if s.Base[1] < 2 || s.Base[1] > 5 {
			t.Fatalf("structure %d height %v outside [2, 5]", i, s.Base[1])
		}
		if s.Delay != float32(i)*StructureDelay || s.Progress != -s.Delay {
			t.Fatalf("structure %d has delay %v progress %v", i, s.Delay, s.Progress)
		}
		if s.Color != HexColor(StructurePalette[i%3]) {
			t.Fatalf("structure %d has color %v", i, s.Color)
		}
		for e, o := range s.Opacity {
			if o != 0 {
				t.Fatalf("structure %d edge %d visible before drawing: %v", i, e, o)
			}
		}
	}
}

func TestRoomSeedIsDeterministic(t *testing.T) {
	a := NewRoomScene(WithSeed(42)).Structures()
	b := NewRoomScene(WithSeed(42)).Structures()
	for i := range a {
		if a[i].Base != b[i].Base || a[i].RotationY != b[i].RotationY {
			t.Fatalf("structure %d differs between equal seeds", i)
		}
	}
}

func TestRoomDrawingProgress(t *testing.T) {
	room := NewRoomScene(WithSeed(3), WithStructureCount(2))
	room.Update(0.1, nil)

	s := room.Structures()
	if !near(s[0].Progress, 0.03) {
		t.Fatalf("expected first structure progress 0.03, got %v", s[0].Progress)
	}
	if !near(s[1].Progress, -0.4) {
		t.Fatalf("expected second structure still waiting at -0.4, got %v", s[1].Progress)
	}

	p := s[0].Position
	fog := max(0, 1-float32(math.Sqrt(float64(p[0]*p[0]+p[1]*p[1]+p[2]*p[2])))/FogDistance)
	want := common.Clamp01(0.03*12*2) * fog
	if !near(s[0].Opacity[0], want) {
		t.Fatalf("expected first edge opacity %v, got %v", want, s[0].Opacity[0])
	}
	if s[0].Opacity[1] != 0 {
		t.Fatalf("expected second edge hidden, got %v", s[0].Opacity[1])
	}

	for i := 0; i < 200; i++ {
		room.Update(0.05, nil)
	}
	for i, s := range room.Structures() {
		if s.Progress != 1 {
			t.Fatalf("structure %d did not finish: %v", i, s.Progress)
		}
		if math.Abs(float64(s.Position[1]-s.Base[1])) > FloatAmplitude+1e-5 {
			t.Fatalf("structure %d floats too far: %v vs %v", i, s.Position[1], s.Base[1])
		}
		for e := 1; e < len(s.Opacity); e++ {
			if !near(s.Opacity[e], s.Opacity[0]) {
				t.Fatalf("structure %d edge %d opacity %v differs from %v once drawn", i, e, s.Opacity[e], s.Opacity[0])
			}
		}
	}
	if math.Abs(float64(room.Elapsed())-10.1) > 1e-3 {
		t.Fatalf("expected 10.1 s elapsed, got %v", room.Elapsed())
	}
}

func TestHexColor(t *testing.T) {
	c := HexColor("#FF4B4B")
	if c[0] != 1 || !near(c[1], 75.0/255) || !near(c[2], 75.0/255) {
		t.Fatalf("unexpected color %v", c)
	}
	if HexColor("nope") != [3]float32{} {
		t.Fatalf("expected black for malformed input")
	}
}

func TestSphereMeshFacesInward(t *testing.T) {
	m := SphereMesh(PanoramaRadius, PanoramaWidthSegments, PanoramaHeightSegments)
	if m.VertexCount() != 61*41 {
		t.Fatalf("expected %d vertices, got %d", 61*41, m.VertexCount())
	}
	if m.TriangleCount() != 2*60*39 {
		t.Fatalf("expected %d triangles, got %d", 2*60*39, m.TriangleCount())
	}
	for i := 0; i < m.VertexCount(); i++ {
		x, y, z := m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]
		if r := math.Sqrt(float64(x*x + y*y + z*z)); math.Abs(r-PanoramaRadius) > 1e-2 {
			t.Fatalf("vertex %d at radius %v", i, r)
		}
	}
	if m.UVs[1] != 0 || m.UVs[len(m.UVs)-1] != 1 {
		t.Fatalf("expected v to run from 0 at the top to 1 at the bottom")
	}

	vertex := func(i uint32) [3]float64 {
		return [3]float64{float64(m.Positions[i*3]), float64(m.Positions[i*3+1]), float64(m.Positions[i*3+2])}
	}
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c := vertex(m.Indices[tri*3]), vertex(m.Indices[tri*3+1]), vertex(m.Indices[tri*3+2])
		e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float64{e1[1]*e2[2] - e1[2]*e2[1], e1[2]*e2[0] - e1[0]*e2[2], e1[0]*e2[1] - e1[1]*e2[0]}
		centroid := [3]float64{a[0] + b[0] + c[0], a[1] + b[1] + c[1], a[2] + b[2] + c[2]}
		if n[0]*centroid[0]+n[1]*centroid[1]+n[2]*centroid[2] >= 0 {
			t.Fatalf("triangle %d faces outward", tri)
		}
	}
}

func TestPanoramaFollowsCamera(t *testing.T) {
	project, _ := config.Default().ProjectForRoute("/projects/human-within")
	pano := NewPanoramaScene(project, "pano.jpg")
	pose := camera.NewCameraController(camera.WithPosition(3, -2))

	pano.Update(0.016, pose)
	m := pano.ModelMatrix()
	x, y, z := pose.Position()
	if m[12] != x || m[13] != y || m[14] != z {
		t.Fatalf("expected sphere centred on %v,%v,%v, got %v", x, y, z, m[12:15])
	}
	if m[0] != 1 || m[5] != 1 || m[10] != 1 {
		t.Fatalf("expected an unrotated sphere, got %v", m)
	}

	pose.Walk(5, 5)
	pano.Update(0.016, pose)
	m = pano.ModelMatrix()
	x, _, z = pose.Position()
	if m[12] != x || m[14] != z {
		t.Fatalf("expected sphere to follow the camera")
	}

	if s := pano.Sampler(); s.RepeatV != 0.5 {
		t.Fatalf("expected over/under sampler to read the top half, got %v", s.RepeatV)
	}
}

func newTestCoordinator(t *testing.T) (Coordinator, *fakeLoader, *StagingBinder, config.ViewerConfig) {
	t.Helper()
	cfg := config.Default()
	loader := &fakeLoader{}
	binder := NewStagingBinder()
	c := NewCoordinator(cfg, WithAsyncLoader(loader), WithBinder(binder), WithRoomOptions(WithSeed(1)))
	return c, loader, binder, cfg
}

func TestCoordinatorStartsWithRoom(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	room := c.Active()
	if room.Kind() != KindRoom || !room.Active() {
		t.Fatalf("expected the active room, got %v", room.Kind())
	}
	if c.Route() != "/" {
		t.Fatalf("expected route /, got %q", c.Route())
	}
	if c.SetRoute("/about") != room {
		t.Fatalf("expected the room to survive a non-project route change")
	}
	if c.SetRoute("/projects/does-not-exist") != room {
		t.Fatalf("expected unknown projects to keep the room")
	}
}

func TestCoordinatorPanoramaLifecycle(t *testing.T) {
	c, loader, binder, cfg := newTestCoordinator(t)
	pose := camera.NewCameraController()

	room := c.Active()
	first := c.SetRoute("/projects/human-within")
	pano, ok := first.(PanoramaScene)
	if !ok {
		t.Fatalf("expected a panorama, got %v", first.Kind())
	}
	if room.Active() {
		t.Fatalf("expected the room to be deactivated")
	}
	wantSource := filepath.Join(cfg.AssetsDir, "HW_360_VR_COLOR_CHECK_6.jpg")
	if pano.Source() != wantSource || loader.requests[0] != wantSource {
		t.Fatalf("expected a request for %q, got %q / %v", wantSource, pano.Source(), loader.requests)
	}
	if pano.Loaded() || pano.Texture() != 0 {
		t.Fatalf("expected nothing shown before the load resolves")
	}

	loader.finish(1, wantSource, solidTexture(wantSource), nil)
	c.Update(0.016, pose)
	if !pano.Loaded() || pano.Texture() == 0 {
		t.Fatalf("expected the panorama texture to be bound")
	}
	bound, ok := binder.Bound(pano.Texture())
	if !ok || bound.Sampler.RepeatV != 0.5 {
		t.Fatalf("expected the over/under sampler to be bound, got %+v", bound.Sampler)
	}
	firstTex := pano.Texture()

	// the previous image stays up while the next one loads and after it fails
	next := c.SetRoute("/projects/nature-redux").(PanoramaScene)
	if next.Texture() != firstTex || next.Loaded() {
		t.Fatalf("expected the previous texture to be carried over")
	}
	loader.finish(2, next.Source(), nil, errors.New("boom"))
	c.Update(0.016, pose)
	if next.Texture() != firstTex || next.Loaded() || binder.Len() != 1 {
		t.Fatalf("expected a failed load to keep the previous texture")
	}

	// a late result for an old ticket is ignored
	loader.finish(1, wantSource, solidTexture(wantSource), nil)
	c.Update(0.016, pose)
	if next.Texture() != firstTex || binder.Len() != 1 {
		t.Fatalf("expected a stale result to be ignored")
	}

	third := c.SetRoute("/projects/urban-dreams").(PanoramaScene)
	loader.finish(3, third.Source(), solidTexture(third.Source()), nil)
	c.Update(0.016, pose)
	if third.Texture() == firstTex || !third.Loaded() {
		t.Fatalf("expected the new texture to replace the carried one")
	}
	if _, ok := binder.Bound(firstTex); ok || binder.Len() != 1 {
		t.Fatalf("expected the replaced texture to be released")
	}

	if c.SetRoute("/projects/urban-dreams") != third {
		t.Fatalf("expected the same project route to keep the panorama")
	}

	back := c.SetRoute("/")
	if back.Kind() != KindRoom || back == room {
		t.Fatalf("expected a fresh room after leaving a project")
	}
	if binder.Len() != 0 {
		t.Fatalf("expected the panorama texture to be released, %d left", binder.Len())
	}
}

func TestCoordinatorClose(t *testing.T) {
	c, loader, binder, _ := newTestCoordinator(t)
	pano := c.SetRoute("/projects/time-echoes").(PanoramaScene)
	loader.finish(1, pano.Source(), solidTexture(pano.Source()), nil)
	c.Update(0.016, camera.NewCameraController())
	if binder.Len() != 1 {
		t.Fatalf("expected one bound texture")
	}

	c.Close()
	if binder.Len() != 0 {
		t.Fatalf("expected close to release the texture")
	}
	if loader.closed {
		t.Fatalf("expected a caller-owned loader to stay open")
	}
	if c.SetRoute("/") != pano {
		t.Fatalf("expected a closed coordinator to ignore route changes")
	}
}

func TestStagingBinderRejectsBadTextures(t *testing.T) {
	b := NewStagingBinder()
	if _, err := b.Bind(nil, common.PanoramaSampler(false)); err == nil {
		t.Fatalf("expected error for nil texture")
	}
	short := &common.TextureStagingData{Pixels: make([]byte, 3), Width: 1, Height: 1}
	if _, err := b.Bind(short, common.PanoramaSampler(false)); err == nil {
		t.Fatalf("expected error for a short pixel buffer")
	}
	b.Release(99)
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestStructureWorldEdges(t *testing.T) {
	s := Structure{Position: [3]float32{3, 0.5, -2}}
	edges := s.WorldEdges()
	first := edges[0]
	if !near(first.From[0], 2) || !near(first.From[1], 0.5) || !near(first.From[2], -3) {
		t.Fatalf("expected the first corner translated, got %v", first.From)
	}

	s.RotationY = math.Pi / 2
	for _, e := range s.WorldEdges() {
		for _, p := range [][3]float32{e.From, e.To} {
			dx, dz := p[0]-3, p[2]+2
			if !near(dx*dx+dz*dz, 2) {
				t.Fatalf("expected rotated corners to stay on the footprint, got %v", p)
			}
		}
	}
}
