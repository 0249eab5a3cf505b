package gas

// GasConstant is the universal gas constant in J/(kmol K).
const GasConstant = 8314.462618

// OneAtm is the reference pressure for entropy, in Pa.
const OneAtm = 101325.0

// Engine is an equation-of-state handle for one fixed composition.
// All properties are mass specific and in SI units. Handles are not safe
// for concurrent use; use Clone to obtain an independent one.
type Engine interface {
	// SetTP resolves the state from temperature and pressure.
	SetTP(t, p float64) error
	// SetHP resolves the state from specific enthalpy and pressure.
	SetHP(h, p float64) error

	Temperature() float64
	Pressure() float64
	Density() float64
	Enthalpy() float64
	Entropy() float64
	Cp() float64
	Cv() float64
	MolarMass() float64

	Clone() Engine
}
