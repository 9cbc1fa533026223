package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgalab/genpoly-fpg/exitcode"
	"github.com/cgalab/genpoly-fpg/settings"
)

func validationCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	var fatal *exitcode.Error
	require.ErrorAs(t, err, &fatal)
	return fatal.Code
}

func TestValidateRejectsTinyPolygon(t *testing.T) {
	set := settings.New()
	set.OuterSize = 2
	assert.Equal(t, exitcode.ConfigValidation, validationCode(t, set.Validate()))
}

func TestValidateRejectsHoleMismatch(t *testing.T) {
	set := settings.New()
	set.OuterSize = 100
	set.NrOfHoles = 2
	set.InnerSizes = []int{10}
	assert.Equal(t, exitcode.ConfigValidation, validationCode(t, set.Validate()))
}

func TestValidateRejectsTinyHole(t *testing.T) {
	set := settings.New()
	set.OuterSize = 100
	set.NrOfHoles = 1
	set.InnerSizes = []int{2}
	assert.Equal(t, exitcode.ConfigValidation, validationCode(t, set.Validate()))
}

func TestValidateRejectsOversizedInitialPolygon(t *testing.T) {
	set := settings.New()
	set.OuterSize = 5
	set.InitialSize = 10
	assert.Equal(t, exitcode.ConfigValidation, validationCode(t, set.Validate()))
}

func TestValidateAcceptsInitialSizeEqualToTarget(t *testing.T) {
	set := settings.New()
	set.OuterSize = 5
	set.InitialSize = 5
	require.NoError(t, set.Validate())
	assert.Equal(t, 5*set.InitialTranslationFactor, set.InitialTranslationNumber)
}

func TestValidateDerivesHoleInsertionAtStart(t *testing.T) {
	cases := []struct {
		holes   int
		atStart bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tc := range cases {
		set := settings.New()
		set.OuterSize = 100
		set.NrOfHoles = tc.holes
		for i := 0; i < tc.holes; i++ {
			set.InnerSizes = append(set.InnerSizes, 10)
		}
		require.NoError(t, set.Validate())
		assert.Equal(t, tc.atStart, set.HoleInsertionAtStart, "holes=%d", tc.holes)
	}
}
