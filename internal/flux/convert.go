package flux

const (
	// GasConstant is the molar gas constant in J/(mol·K).
	GasConstant = 8.314462618
	// PascalPerMmHg converts millimetres of mercury to pascal.
	PascalPerMmHg = 133.322368
	// ZeroCelsius is 0 °C in kelvin.
	ZeroCelsius = 273.15
)

// Chamber describes the enclosed headspace over the measured surface.
type Chamber struct {
	VolumeM3 float64 `yaml:"volume_m3"`
	AreaM2   float64 `yaml:"area_m2"`
}

// DefaultChamber is a 0.30 m diameter collar with 0.20 m of headspace.
var DefaultChamber = Chamber{
	VolumeM3: 0.0141,
	AreaM2:   0.0707,
}

// Convert turns a concentration slope in ppm/s into an areal flux in
// µmol·m⁻²·h⁻¹, using the ideal gas law for the moles of air in the chamber.
// It returns 0 when pressure, absolute temperature, volume or area is not positive.
func Convert(slopePPMPerSecond, temperatureC, pressureMmHg float64, chamber Chamber) float64 {
	pressure := pressureMmHg * PascalPerMmHg
	temperature := temperatureC + ZeroCelsius
	if pressure <= 0 || temperature <= 0 || chamber.VolumeM3 <= 0 || chamber.AreaM2 <= 0 {
		return 0
	}

	totalMoles := pressure * chamber.VolumeM3 / (GasConstant * temperature)
	molesPerSecond := slopePPMPerSecond / 1e6 * totalMoles
	return molesPerSecond * 1e6 * 3600 / chamber.AreaM2
}
