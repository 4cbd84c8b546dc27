package scene

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

// Room defaults.
const (
	RoomWidth  = 40
	RoomHeight = 8
	RoomDepth  = 40

	StructureCount   = 20
	StructureSpread  = 30  // structures are placed within ±Spread/2 on x and z
	StructureDelay   = 0.5 // seconds between consecutive structures starting to draw
	DrawRate         = 0.3 // drawing progress per second
	FogDistance      = 40  // structures fade out linearly up to this distance from the origin
	FloatAmplitude   = 0.2
	FloatFrequency   = 0.5 // radians per second
	RoomEdgeOpacity  = 0.5
	structureEdgeLen = 12
)

// StructurePalette is the cycle of structure colors.
var StructurePalette = []string{"#FF4B4B", "#FFD700", "#4169E1"}

// RoomEdgeColor is the color of the room wireframe, drawn at RoomEdgeOpacity.
const RoomEdgeColor = "#dedede"

// Segment is a line from From to To.
type Segment struct {
	From, To [3]float32
}

// Structure is one self-drawing wireframe cube.
type Structure struct {
	// Base is the resting position; Position adds the float offset.
	Base     [3]float32
	Position [3]float32
	// RotationY is a fixed random heading.
	RotationY float32
	Color     [3]float32
	Delay     float32
	// Progress runs from -Delay up to 1.
	Progress float32
	// Opacity is per edge, in StructureEdges order.
	Opacity [structureEdgeLen]float32
}

// ModelMatrix returns the structure's model matrix.
func (s Structure) ModelMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], s.Position[0], s.Position[1], s.Position[2], 0, s.RotationY, 0, 1, 1, 1)
	return m
}

// WorldEdges returns StructureEdges transformed by the model matrix.
func (s Structure) WorldEdges() [structureEdgeLen]Segment {
	m := s.ModelMatrix()
	var out [structureEdgeLen]Segment
	for i, e := range StructureEdges {
		out[i].From[0], out[i].From[1], out[i].From[2] = common.TransformPoint(m[:], e.From[0], e.From[1], e.From[2])
		out[i].To[0], out[i].To[1], out[i].To[2] = common.TransformPoint(m[:], e.To[0], e.To[1], e.To[2])
	}
	return out
}

// StructureEdges are the 12 edges of a structure in drawing order: base, verticals, top.
var StructureEdges = [structureEdgeLen]Segment{
	{[3]float32{-1, 0, -1}, [3]float32{1, 0, -1}},
	{[3]float32{1, 0, -1}, [3]float32{1, 0, 1}},
	{[3]float32{1, 0, 1}, [3]float32{-1, 0, 1}},
	{[3]float32{-1, 0, 1}, [3]float32{-1, 0, -1}},
	{[3]float32{-1, 0, -1}, [3]float32{-1, 2, -1}},
	{[3]float32{1, 0, -1}, [3]float32{1, 2, -1}},
	{[3]float32{1, 0, 1}, [3]float32{1, 2, 1}},
	{[3]float32{-1, 0, 1}, [3]float32{-1, 2, 1}},
	{[3]float32{-1, 2, -1}, [3]float32{1, 2, -1}},
	{[3]float32{1, 2, -1}, [3]float32{1, 2, 1}},
	{[3]float32{1, 2, 1}, [3]float32{-1, 2, 1}},
	{[3]float32{-1, 2, 1}, [3]float32{-1, 2, -1}},
}

type roomImpl struct {
	sceneBase

	width, height, depth float32
	count                int
	seed                 uint64

	edges      []Segment
	structures []Structure
	elapsed    float32
}

// RoomScene is the generated exhibition room shown on every route without a panorama:
// a wireframe box with structures that draw themselves edge by edge.
type RoomScene interface {
	Scene

	// Edges returns the room's wireframe edges in world space.
	//
	// Returns:
	//   - []Segment: the 12 box edges
	Edges() []Segment

	// Structures returns a snapshot of the drawing structures.
	//
	// Returns:
	//   - []Structure: the structures with their current progress and opacities
	Structures() []Structure

	// Elapsed returns the seconds the room has been updated for.
	//
	// Returns:
	//   - float32: accumulated update time
	Elapsed() float32
}

var _ RoomScene = &roomImpl{}

// NewRoomScene creates the exhibition room. Structure placement is random unless WithSeed is given.
//
// Parameters:
//   - options: functional options to configure the room
//
// Returns:
//   - RoomScene: the newly created room
func NewRoomScene(options ...RoomBuilderOption) RoomScene {
	r := &roomImpl{
		sceneBase: newSceneBase("room"),
		width:     RoomWidth,
		height:    RoomHeight,
		depth:     RoomDepth,
		count:     StructureCount,
		seed:      rand.Uint64(),
	}
	for _, option := range options {
		option(r)
	}
	r.edges = boxEdges(r.width, r.height, r.depth)
	r.structures = placeStructures(r.count, r.seed)
	return r
}

func boxEdges(w, h, d float32) []Segment {
	x, z := w/2, d/2
	corner := func(sx, y, sz float32) [3]float32 { return [3]float32{sx * x, y, sz * z} }
	return []Segment{
		{corner(-1, 0, -1), corner(1, 0, -1)},
		{corner(1, 0, -1), corner(1, 0, 1)},
		{corner(1, 0, 1), corner(-1, 0, 1)},
		{corner(-1, 0, 1), corner(-1, 0, -1)},
		{corner(-1, h, -1), corner(1, h, -1)},
		{corner(1, h, -1), corner(1, h, 1)},
		{corner(1, h, 1), corner(-1, h, 1)},
		{corner(-1, h, 1), corner(-1, h, -1)},
		{corner(-1, 0, -1), corner(-1, h, -1)},
		{corner(1, 0, -1), corner(1, h, -1)},
		{corner(1, 0, 1), corner(1, h, 1)},
		{corner(-1, 0, 1), corner(-1, h, 1)},
	}
}

func placeStructures(n int, seed uint64) []Structure {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Structure, n)
	for i := range out {
		base := [3]float32{
			(rng.Float32() - 0.5) * StructureSpread,
			2 + rng.Float32()*3,
			(rng.Float32() - 0.5) * StructureSpread,
		}
		delay := float32(i) * StructureDelay
		out[i] = Structure{
			Base:      base,
			Position:  base,
			RotationY: rng.Float32() * 2 * math.Pi,
			Color:     HexColor(StructurePalette[i%len(StructurePalette)]),
			Delay:     delay,
			Progress:  -delay,
		}
	}
	return out
}

func (r *roomImpl) Kind() Kind {
	return KindRoom
}

func (r *roomImpl) Edges() []Segment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Segment, len(r.edges))
	copy(out, r.edges)
	return out
}

func (r *roomImpl) Structures() []Structure {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Structure, len(r.structures))
	copy(out, r.structures)
	return out
}

func (r *roomImpl) Elapsed() float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.elapsed
}

// Update advances every structure. A structure waits out its delay, then its progress
// grows at DrawRate; edge i becomes visible once progress*12 passes i and is fully
// opaque half an edge later. Past half progress the structure floats around its base.
func (r *roomImpl) Update(dt float32, _ camera.CameraController) {
	if dt <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.elapsed += dt
	for i := range r.structures {
		s := &r.structures[i]
		if s.Progress < 0 {
			s.Progress += dt
			continue
		}
		s.Progress = min(s.Progress+dt*DrawRate, 1)

		if s.Progress > 0.5 {
			s.Position[1] = s.Base[1] + float32(math.Sin(float64(r.elapsed*FloatFrequency)))*FloatAmplitude
		}

		dist := float32(math.Sqrt(float64(s.Position[0]*s.Position[0] + s.Position[1]*s.Position[1] + s.Position[2]*s.Position[2])))
		fog := max(0, 1-dist/FogDistance)
		for e := range s.Opacity {
			s.Opacity[e] = common.Clamp01((s.Progress*structureEdgeLen-float32(e))*2) * fog
		}
	}
}

// HexColor parses "#RRGGBB" into 0..1 components. Malformed input yields black.
func HexColor(hex string) [3]float32 {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return [3]float32{}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}
	}
	return [3]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}
}
