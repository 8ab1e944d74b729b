package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"syscall"

	"github.com/akmonengine/bvh"
	"github.com/akmonengine/bvh/actor"
	"github.com/akmonengine/bvh/scene"
	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"
)

// Keeps config field names when the binary is obfuscated, the cli package
// derives option names from them.
var _ = reflect.TypeOf(config{})

type config struct {
	SceneFile    string      `cli:""        env:"BVH_SCENE_FILE"    help:"JSON scene file. The default scene is used when empty."`
	RandomCount  int         `cli:""        env:"BVH_RANDOM_COUNT"  help:"Generate a random scene with this many objects instead of the default scene."`
	RandomSeed   int         `cli:""        env:"BVH_RANDOM_SEED"   help:"Seed of the random scene and random searches."`
	WorldSize    int         `cli:",hidden" env:"BVH_WORLD_SIZE"    help:"Side of the square random objects are placed in."`
	MaxExtent    int         `cli:",hidden" env:"BVH_MAX_EXTENT"    help:"Largest side of a random object."`
	LeafCapacity int         `cli:""        env:"BVH_LEAF_CAPACITY" help:"Maximum number of objects held by a leaf."`
	Policy       string      `cli:""        env:"BVH_POLICY"        help:"Intersection policy (open|closed)."`
	Search       rectConfig  `cli:""        env:"-"                 help:"Search rectangle."`
	Bench        benchConfig `cli:",hidden" env:"-"                 help:"Benchmark configuration."`
	DumpFile     string      `cli:""        env:"BVH_DUMP_FILE"     help:"Write object and node boxes to this JSON file."`
	MetricsAddr  string      `cli:""        env:"BVH_METRICS_ADDR"  help:"Serve Prometheus metrics on this address until interrupted."`
	LogLevel     string      `cli:""        env:"BVH_LOG_LEVEL"     help:"Log level (debug|info|warning|error)."`
	LogIndent    bool        `cli:""        env:"BVH_LOG_INDENT"    help:"Indent logs."`
	Help         bool        `cli:""        env:"-"                 help:"Show help."`
}

type rectConfig struct {
	Left   int `cli:"" env:"BVH_SEARCH_LEFT"   help:"Left edge of the search rectangle."`
	Top    int `cli:"" env:"BVH_SEARCH_TOP"    help:"Top edge of the search rectangle."`
	Width  int `cli:"" env:"BVH_SEARCH_WIDTH"  help:"Width of the search rectangle."`
	Height int `cli:"" env:"BVH_SEARCH_HEIGHT" help:"Height of the search rectangle."`
}

func (r rectConfig) AABB() actor.AABB {
	return actor.AABB{
		Left:   float64(r.Left),
		Top:    float64(r.Top),
		Width:  float64(r.Width),
		Height: float64(r.Height),
	}
}

type benchConfig struct {
	Searches int  `cli:",hidden" env:"BVH_BENCH_SEARCHES" help:"Number of random searches compared on top of the configured search."`
	Workers  int  `cli:",hidden" env:"BVH_BENCH_WORKERS"  help:"Goroutines used for the batch query run."`
	Grid     bool `cli:",hidden" env:"BVH_BENCH_GRID"     help:"Also compare a uniform grid index."`
}

// dump is what DumpFile receives: already computed boxes for a renderer.
type dump struct {
	Objects []actor.AABB  `json:"objects"`
	Nodes   []bvh.NodeBox `json:"nodes"`
}

func main() {
	conf := config{
		RandomSeed:   1,
		WorldSize:    1920,
		MaxExtent:    64,
		LeafCapacity: bvh.DEFAULT_LEAF_CAPACITY,
		Policy:       actor.DefaultPolicy.String(),
		Search:       rectConfig{Left: 48, Top: 48, Width: 32, Height: 32},
		Bench: benchConfig{
			Searches: 100,
			Workers:  4,
		},
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Builds a bounding volume hierarchy over a scene and compares it with a linear scan.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := run(ctx, conf); err != nil {
		logs.Fatal(err)
	}
}

func run(ctx context.Context, conf config) error {
	policy, err := actor.ParsePolicy(conf.Policy)
	if err != nil {
		return err
	}

	entries, searches, err := loadScene(conf)
	if err != nil {
		return err
	}

	session := bvh.NewSession(
		bvh.WithSessionLeafCapacity(conf.LeafCapacity),
		bvh.WithSessionPolicy(policy),
		bvh.WithWorkers(conf.Bench.Workers),
	)
	if err := session.Setup(entries); err != nil {
		return err
	}

	h := session.Hierarchy()
	if err := h.Validate(); err != nil {
		return err
	}

	logs.WithTag("session_id", session.ID).
		WithTag("objects", session.Store().Len()).
		WithTag("nodes", len(h.Nodes)).
		WithTag("leaves", h.LeafCount()).
		WithTag("depth", h.Depth()).
		Info("hierarchy ready")

	found, err := session.Query(conf.Search.AABB())
	if err != nil {
		return err
	}
	for _, o := range found {
		fmt.Printf("Object collided with: %s\n", o.Name)
	}

	bench := bvh.Benchmark{Session: session}
	if conf.Bench.Grid {
		bench.Grid = bvh.NewSpatialGrid(bvh.SuggestCellSize(h.Objects()), 4*len(h.Objects()))
		bench.Grid.Index(h.Objects())
	}

	if _, err := bench.CompareAll(append([]actor.AABB{conf.Search.AABB()}, searches...)); err != nil {
		return err
	}
	fmt.Print(bench.Report())

	if _, err := session.QueryBatch(searches); err != nil {
		return err
	}

	if conf.DumpFile != "" {
		if err := writeDump(conf.DumpFile, h); err != nil {
			return err
		}
	}

	if bench.Report().Mismatches != 0 {
		return errors.New("hierarchy disagrees with linear scan").
			WithType(bvh.ErrTypeQueryMismatch).
			WithTag("mismatches", bench.Report().Mismatches)
	}

	if conf.MetricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, conf.MetricsAddr)
}

func loadScene(conf config) ([]bvh.Entry, []actor.AABB, error) {
	seed := int64(conf.RandomSeed)
	worldSize := float64(conf.WorldSize)
	maxExtent := float64(conf.MaxExtent)
	searches := scene.RandomSearches(conf.Bench.Searches, seed+1, worldSize, 4*maxExtent)

	switch {
	case conf.SceneFile != "":
		f, err := scene.Load(conf.SceneFile)
		if err != nil {
			return nil, nil, err
		}
		return f.Objects, append(f.Searches, searches...), nil

	case conf.RandomCount > 0:
		return scene.Random(conf.RandomCount, seed, worldSize, maxExtent), searches, nil

	default:
		return scene.Default(), searches, nil
	}
}

func writeDump(filename string, h *bvh.Hierarchy) error {
	b, err := json.MarshalIndent(dump{
		Objects: h.ObjectBoxes(),
		Nodes:   h.NodeBoxes(),
	}, "", "  ")
	if err != nil {
		return errors.New("encoding dump failed").Wrap(err)
	}
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		return errors.New("writing dump failed").
			WithTag("file_name", filename).
			Wrap(err)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string) error {
	var mux http.ServeMux
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: &mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})
	g.Go(func() error {
		logs.WithTag("addr", addr).Info("serving metrics")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.New("metrics server stopped").
				WithTag("addr", addr).
				Wrap(err)
		}
		return nil
	})
	return g.Wait()
}
