package flow

// Summary is a read-only snapshot of a station for reports and storage.
type Summary struct {
	Density       float64 `json:"density"`
	Temperature   float64 `json:"temperature"`
	Pressure      float64 `json:"pressure"`
	GasConstant   float64 `json:"gas_constant"`
	Gamma         float64 `json:"gamma"`
	SoundSpeed    float64 `json:"sound_speed"`
	Velocity      float64 `json:"velocity"`
	Mach          float64 `json:"mach"`
	Enthalpy      float64 `json:"enthalpy"`
	Entropy       float64 `json:"entropy"`
	MassFlux      float64 `json:"mass_flux"`
	MomentumFlux  float64 `json:"momentum_flux"`
	TotalEnthalpy float64 `json:"total_enthalpy"`
}

func (s *State) Summary() Summary {
	return Summary{
		Density:       s.gas.Density(),
		Temperature:   s.gas.Temperature(),
		Pressure:      s.gas.Pressure(),
		GasConstant:   s.GasConstant(),
		Gamma:         s.Gamma(),
		SoundSpeed:    s.SpeedOfSound(),
		Velocity:      s.velocity,
		Mach:          s.mach,
		Enthalpy:      s.gas.Enthalpy(),
		Entropy:       s.gas.Entropy(),
		MassFlux:      s.MassFlux(),
		MomentumFlux:  s.MomentumFlux(),
		TotalEnthalpy: s.TotalEnthalpy(),
	}
}
