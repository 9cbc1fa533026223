package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/geom"
	"github.com/cgalab/genpoly-fpg/settings"
	"github.com/cgalab/genpoly-fpg/stats"
	"github.com/cgalab/genpoly-fpg/transform"
	"github.com/cgalab/genpoly-fpg/trimesh"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var fatal *exitcode.Error
		if errors.As(err, &fatal) {
			os.Exit(fatal.Code)
		}
		os.Exit(1)
	}
}

func run() error {
	set, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	if err := set.Validate(); err != nil {
		return err
	}

	log, err := buildLogger(set)
	if err != nil {
		return err
	}
	defer log.Sync()
	set.Log = log

	seed := set.Seed
	if !set.FixedSeed {
		seed = time.Now().UnixNano()
		set.Seed = seed
	}
	log.Infof("seed: %d", seed)
	rng := rand.New(rand.NewSource(seed))

	m := trimesh.NewMesh(set)
	if err := transform.BuildInitialPolygon(m); err != nil {
		return err
	}

	st := stats.New(seed)
	tr := transform.New(m, rng, st)

	switch {
	case set.NrOfHoles == 0:
		err = transform.StrategyNoHoles0(tr)
	case set.HoleInsertionAtStart:
		err = transform.StrategyWithHoles0(tr)
	default:
		err = transform.StrategyWithHoles1(tr)
	}
	if err != nil {
		return err
	}

	if set.GlobalChecking {
		if err := m.CheckSimplicity(); err != nil {
			return err
		}
	}

	if err := writePolygon(m, set); err != nil {
		return err
	}
	if set.TriangulationFile != "" {
		if err := writeFile(set.TriangulationFile, m.WriteTriangulation); err != nil {
			return err
		}
	}
	if set.EnableStats {
		if err := writeStats(m, st, set.StatisticsFile); err != nil {
			return err
		}
	}

	log.Infof("finished after %v", time.Since(st.Start).Round(time.Millisecond))
	return nil
}

func parseFlags(args []string) (*settings.Settings, error) {
	set := settings.New()

	fs := flag.NewFlagSet("fpg", flag.ContinueOnError)
	nrOfHoles := fs.Int("nrofholes", 0, "number of holes")
	holeSizes := fs.String("holesizes", "", "comma-separated hole sizes, or one size for all holes")
	startSize := fs.Int("startsize", set.InitialSize, "number of vertices of the initial polygon")
	seed := fs.Int64("seed", 0, "fixed seed for the random generator")
	arithmetic := fs.String("arithmetic", "double", "orientation predicate arithmetic: double or exact")
	outputFormat := fs.String("outputformat", "dat", "polygon output format: dat, line or graphml")
	statsFile := fs.String("statsfile", "", "write XML statistics to this file")
	enableStats := fs.Bool("enablestats", false, "collect and write statistics")
	printTriang := fs.String("printtriang", "", "write the full triangulation as graphml to this file")
	disableLocal := fs.Bool("disablelocalchecks", false, "disable the local checks after each translation")
	enableGlobal := fs.Bool("enableglobalchecks", false, "enable the global simplicity check at the end")
	disableWeighted := fs.Bool("disableweightedselection", false, "select insertion edges uniformly instead of by length")
	retriangulate := fs.Bool("retriangulate", false, "use the retriangulating translation instead of the kinetic one")
	verbose := fs.Bool("verbose", false, "verbose progress output")
	mute := fs.Bool("mute", false, "suppress all output except errors")
	if err := fs.Parse(args); err != nil {
		return nil, exitcode.Errorf(exitcode.ConfigType, "parsing flags: %v", err)
	}

	if fs.NArg() != 2 {
		return nil, exitcode.Errorf(exitcode.ConfigValidation,
			"expected two positional arguments <vertexCount> <outputPath>, got %d", fs.NArg())
	}
	outer, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return nil, exitcode.Errorf(exitcode.ConfigType, "vertex count: %v", err)
	}
	set.OuterSize = outer
	set.PolygonFile = fs.Arg(1)

	set.NrOfHoles = *nrOfHoles
	set.InnerSizes, err = parseHoleSizes(*holeSizes, *nrOfHoles)
	if err != nil {
		return nil, err
	}
	set.InitialSize = *startSize
	if *seed != 0 {
		set.FixedSeed = true
		set.Seed = *seed
	}

	switch *arithmetic {
	case "double":
		set.Arithmetic = settings.Double
	case "exact":
		set.Arithmetic = settings.Exact
	default:
		return nil, exitcode.Errorf(exitcode.ConfigType,
			"unknown arithmetic %q", *arithmetic)
	}

	switch *outputFormat {
	case "dat":
		set.OutputFormat = settings.Dat
	case "line":
		set.OutputFormat = settings.Line
	case "graphml":
		set.OutputFormat = settings.Graphml
	default:
		return nil, exitcode.Errorf(exitcode.ConfigType,
			"unknown output format %q", *outputFormat)
	}

	set.StatisticsFile = *statsFile
	set.EnableStats = *enableStats || *statsFile != ""
	set.TriangulationFile = *printTriang
	set.LocalChecking = !*disableLocal
	set.GlobalChecking = *enableGlobal
	set.WeightedEdgeSelection = !*disableWeighted
	set.Retriangulate = *retriangulate
	set.Verbose = *verbose
	set.Mute = *mute
	return set, nil
}

func parseHoleSizes(s string, nrOfHoles int) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, exitcode.Errorf(exitcode.ConfigType, "hole size %q: %v", p, err)
		}
		sizes = append(sizes, n)
	}
	// A single size applies to every hole.
	if len(sizes) == 1 && nrOfHoles > 1 {
		for len(sizes) < nrOfHoles {
			sizes = append(sizes, sizes[0])
		}
	}
	return sizes, nil
}

func buildLogger(set *settings.Settings) (*zap.SugaredLogger, error) {
	if set.Mute {
		return zap.NewNop().Sugar(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if set.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return log.Sugar(), nil
}

func writePolygon(m *trimesh.Mesh, set *settings.Settings) error {
	f, err := os.Create(set.PolygonFile)
	if err != nil {
		return errors.Wrap(err, "create polygon file")
	}
	defer f.Close()

	switch set.OutputFormat {
	case settings.Line:
		err = m.WritePolygonLine(f)
	case settings.Graphml:
		err = m.WritePolygon(f)
	default:
		err = m.WritePolygonDat(f)
	}
	if err != nil {
		return err
	}
	return errors.Wrap(f.Close(), "close polygon file")
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return errors.Wrap(f.Close(), "close output file")
}

func writeStats(m *trimesh.Mesh, st *stats.Stats, path string) error {
	shapes := make([]stats.Shape, 0, m.RingCount())
	for ring := 0; ring < m.RingCount(); ring++ {
		shapes = append(shapes, stats.MeasureRing(ring, ringPoints(m, ring)))
	}

	if path == "" {
		return st.WriteXML(os.Stdout, shapes)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create statistics file")
	}
	defer f.Close()
	if err := st.WriteXML(f, shapes); err != nil {
		return err
	}
	return errors.Wrap(f.Close(), "close statistics file")
}

// ringPoints returns the ring's vertex positions in chain order.
func ringPoints(m *trimesh.Mesh, ring int) []geom.XY {
	n := m.RingSize(ring)
	pts := make([]geom.XY, 0, n)
	v := m.RingVertex(ring, 0)
	for i := 0; i < n; i++ {
		pts = append(pts, m.Pos(v))
		v = m.NextVertex(v)
	}
	return pts
}
