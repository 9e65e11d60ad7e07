package rank

import (
	"github.com/matzehuels/rankforge/pkg/errors"
	"github.com/matzehuels/rankforge/pkg/mip"
)

// Config controls model construction and solving.
type Config struct {
	// EqualBand is the half-width of the value band around 0.5 interpreted
	// as "equal" rather than strictly ordered. Zero collapses the band to
	// the single point 0.5, which becomes a costless direction choice
	// instead of an equality. Must lie in [0, 0.5).
	EqualBand float64

	// WeightByConfidence weights each repair by 2*|value-0.5| instead of
	// unit cost, so reversing a confident comparison costs more than
	// reversing an indifferent one. Off by default.
	WeightByConfidence bool

	// Solver is the MILP engine used for the repair. Nil selects the exact
	// reference solver (mip/exact).
	Solver mip.Solver
}

func (c Config) validate() error {
	if c.EqualBand < 0 || c.EqualBand >= 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "equal band half-width %g outside [0, 0.5)", c.EqualBand)
	}
	return nil
}
