// Package scene provides the object sets a session is set up with: the
// default demo scene, random scenes and JSON scene files.
package scene

import (
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/akmonengine/bvh"
	"github.com/akmonengine/bvh/actor"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
)

const ErrTypeDecode = "scene_decode"

// File is the JSON layout of a scene file.
type File struct {
	Objects  []bvh.Entry  `json:"objects"`
	Searches []actor.AABB `json:"searches,omitempty"`
}

// Default returns the eight 64x64 tiles laid out on two rows of four.
func Default() []bvh.Entry {
	return []bvh.Entry{
		{Name: "circle", Box: actor.AABB{Left: 0, Top: 0, Width: 64, Height: 64}},
		{Name: "chair", Box: actor.AABB{Left: 64, Top: 0, Width: 64, Height: 64}},
		{Name: "dino", Box: actor.AABB{Left: 128, Top: 0, Width: 64, Height: 64}},
		{Name: "obama", Box: actor.AABB{Left: 192, Top: 0, Width: 64, Height: 64}},
		{Name: "chicken", Box: actor.AABB{Left: 0, Top: 64, Width: 64, Height: 64}},
		{Name: "jockey", Box: actor.AABB{Left: 64, Top: 64, Width: 64, Height: 64}},
		{Name: "frog", Box: actor.AABB{Left: 128, Top: 64, Width: 64, Height: 64}},
		{Name: "shark", Box: actor.AABB{Left: 192, Top: 64, Width: 64, Height: 64}},
	}
}

// DefaultSearch is the search rectangle used with the default scene.
func DefaultSearch() actor.AABB {
	return actor.AABB{Left: 48, Top: 48, Width: 32, Height: 32}
}

// Random returns n boxes placed in a worldSize x worldSize square, each side
// at most maxExtent. Coordinates are whole numbers so the generated scenes are
// exactly reproducible from seed.
func Random(n int, seed int64, worldSize, maxExtent float64) []bvh.Entry {
	rnd := rand.New(rand.NewSource(seed))
	entries := make([]bvh.Entry, n)
	for i := range entries {
		entries[i] = bvh.Entry{
			Name: "object-" + strconv.Itoa(i),
			Box:  randomBox(rnd, worldSize, maxExtent),
		}
	}
	return entries
}

// RandomSearches returns n search rectangles over the same square as Random.
func RandomSearches(n int, seed int64, worldSize, maxExtent float64) []actor.AABB {
	rnd := rand.New(rand.NewSource(seed))
	searches := make([]actor.AABB, n)
	for i := range searches {
		searches[i] = randomBox(rnd, worldSize, maxExtent)
	}
	return searches
}

func randomBox(rnd *rand.Rand, worldSize, maxExtent float64) actor.AABB {
	return actor.AABB{
		Left:   float64(rnd.Intn(max(1, int(worldSize)))),
		Top:    float64(rnd.Intn(max(1, int(worldSize)))),
		Width:  float64(rnd.Intn(max(1, int(maxExtent)) + 1)),
		Height: float64(rnd.Intn(max(1, int(maxExtent)) + 1)),
	}
}

// Decode reads a JSON scene.
func Decode(r io.Reader) (File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return File{}, errors.New("decoding scene failed").
			WithType(ErrTypeDecode).
			Wrap(err)
	}
	for i, e := range f.Objects {
		if err := e.Box.Validate(); err != nil {
			return File{}, errors.New("scene object is invalid").
				WithType(actor.ErrTypeInvalidGeometry).
				WithTag("name", e.Name).
				WithTag("index", i).
				Wrap(err)
		}
	}
	return f, nil
}

// Load reads a JSON scene file.
func Load(filename string) (File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return File{}, errors.New("opening scene file failed").
			WithTag("file_name", filename).
			Wrap(err)
	}
	defer file.Close()

	f, err := Decode(file)
	if err != nil {
		return File{}, errors.New("loading scene file failed").
			WithType(errors.Type(err)).
			WithTag("file_name", filename).
			Wrap(err)
	}
	return f, nil
}

// Encode writes a scene as indented JSON.
func Encode(w io.Writer, f File) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.New("encoding scene failed").Wrap(err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
