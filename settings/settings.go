// Package settings holds the run configuration of the polygon generator.
// A Settings value is built by the CLI from its flag surface, validated
// once, and then treated as read-only by the geometry packages.
package settings

import (
	"go.uber.org/zap"

	"github.com/cgalab/genpoly-fpg/exitcode"
)

// Arithmetic selects the orientation predicate implementation.
type Arithmetic int

const (
	// Double uses plain floating-point determinants with deterministic
	// operand ordering.
	Double Arithmetic = iota
	// Exact uses adaptive exact predicates. Zero determinants are
	// trustworthy in this mode.
	Exact
)

// OutputFormat selects the polygon output encoding.
type OutputFormat int

const (
	Dat OutputFormat = iota
	Line
	Graphml
)

// Numerical constants of the mutation engine.
const (
	// EpsInt is the epsilon for imprecise intersection classification.
	EpsInt = 1e-12
	// MinDetInsertion is the minimal triangle determinant accepted by an
	// insertion in Double mode.
	MinDetInsertion = 1e-12
	// EpsEventTime is the time distance below which two collapse events
	// count as concurrent.
	EpsEventTime = 1e-5
)

// Settings is the full configuration of one generator run.
type Settings struct {
	// Target polygon.
	OuterSize  int
	NrOfHoles  int
	InnerSizes []int

	// Initial polygon.
	InitialSize              int
	RadiusPolygon            float64
	RadiusHole               float64
	BoxSize                  float64
	InitialTranslationFactor int
	InitialTranslationNumber int
	HoleInsertionAtStart     bool

	// Translations.
	Arithmetic     Arithmetic
	LocalChecking  bool
	GlobalChecking bool
	// Retriangulate switches the translation engine from the kinetic
	// event queue to wholesale retriangulation of the swept region.
	Retriangulate bool

	// Insertions.
	InsertionTries int
	MinLength      float64

	// Selection.
	WeightedEdgeSelection bool

	// Randomness.
	FixedSeed bool
	Seed      int64

	// Output.
	PolygonFile       string
	OutputFormat      OutputFormat
	TriangulationFile string
	StatisticsFile    string
	EnableStats       bool
	Mute              bool
	Verbose           bool

	Log *zap.SugaredLogger
}

// New returns a Settings value with the defaults of the generator.
func New() *Settings {
	return &Settings{
		InitialSize:              20,
		RadiusPolygon:            0.1,
		RadiusHole:               0.05,
		BoxSize:                  3.0,
		InitialTranslationFactor: 1000,
		InitialTranslationNumber: -1,
		Arithmetic:               Double,
		LocalChecking:            true,
		InsertionTries:           100,
		MinLength:                0.0000001,
		WeightedEdgeSelection:    true,
		PolygonFile:              "polygon.dat",
		Log:                      zap.NewNop().Sugar(),
	}
}

// Validate checks the configuration for conflicts and derives the dependent
// fields. It must be called exactly once before any geometry runs.
func (s *Settings) Validate() error {
	if s.OuterSize < 3 {
		return exitcode.Errorf(exitcode.ConfigValidation,
			"the polygon must have at least 3 vertices, given number %d", s.OuterSize)
	}
	if s.OuterSize < s.InitialSize {
		return exitcode.Errorf(exitcode.ConfigValidation,
			"the size of the start polygon is not allowed to exceed the target size: given start size %d, given target size %d",
			s.InitialSize, s.OuterSize)
	}
	if s.NrOfHoles != len(s.InnerSizes) {
		return exitcode.Errorf(exitcode.ConfigValidation,
			"conflicting number of holes: given number %d, given number of sizes %d",
			s.NrOfHoles, len(s.InnerSizes))
	}
	for i, n := range s.InnerSizes {
		if n < 3 {
			return exitcode.Errorf(exitcode.ConfigValidation,
				"holes must have a size of at least 3, given size for hole %d: %d", i+1, n)
		}
	}
	s.InitialTranslationNumber = s.InitialTranslationFactor * s.InitialSize
	// Up to two holes are carved into the initial polygon directly. More
	// holes are inserted at runtime after the outer ring has grown.
	s.HoleInsertionAtStart = s.NrOfHoles > 0 && s.NrOfHoles <= 2
	return nil
}
