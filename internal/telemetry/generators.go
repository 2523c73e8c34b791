// internal/telemetry/generators.go
package telemetry

// Documented sensor ranges, inclusive.
const (
	OBCTempMin = -40
	OBCTempMax = 125

	EPSVbatMin       = 0
	EPSVbatMax       = 8200
	EPSCurrentInMin  = 0
	EPSCurrentInMax  = 6000
	EPSCurrentOutMin = 0
	EPSCurrentOutMax = 12000
	EPSTempMin       = -40
	EPSTempMax       = 125

	MagMin = -4000.0
	MagMax = 4000.0

	GyroMin = -225.0
	GyroMax = 225.0

	SunMin = 0
	SunMax = 930
)

// Vector is a three-axis float sample.
type Vector struct {
	X, Y, Z float32
}

// Housekeeping is one EPS housekeeping sample, in wire order.
type Housekeeping struct {
	Vbat       int32
	CurrentIn  int32
	CurrentOut int32
	Temp       int32
}

// IntRange returns a uniform integer in [lo, hi].
func IntRange(src Source, lo, hi int) int32 {
	return int32(lo + src.IntN(hi-lo+1))
}

// FloatRange returns a uniform float in [lo, hi].
func FloatRange(src Source, lo, hi float64) float32 {
	v := float32(lo + src.Float64()*(hi-lo))
	// float32 rounding may step one ulp past the bound
	if v < float32(lo) {
		return float32(lo)
	}
	if v > float32(hi) {
		return float32(hi)
	}
	return v
}

func vector(src Source, lo, hi float64) Vector {
	return Vector{
		X: FloatRange(src, lo, hi),
		Y: FloatRange(src, lo, hi),
		Z: FloatRange(src, lo, hi),
	}
}

// OBCTemp is the on-board computer temperature, degrees C.
func OBCTemp(src Source) int32 {
	return IntRange(src, OBCTempMin, OBCTempMax)
}

// EPSHousekeeping samples battery voltage (mV), currents (mA) and temperature (C).
func EPSHousekeeping(src Source) Housekeeping {
	return Housekeeping{
		Vbat:       IntRange(src, EPSVbatMin, EPSVbatMax),
		CurrentIn:  IntRange(src, EPSCurrentInMin, EPSCurrentInMax),
		CurrentOut: IntRange(src, EPSCurrentOutMin, EPSCurrentOutMax),
		Temp:       IntRange(src, EPSTempMin, EPSTempMax),
	}
}

func Magnetometer(src Source) Vector { return vector(src, MagMin, MagMax) }

func Gyroscope(src Source) Vector { return vector(src, GyroMin, GyroMax) }

// SunSensor samples one sun sensor channel.
// Channels are not modelled individually.
func SunSensor(src Source, channel uint8) int32 {
	return IntRange(src, SunMin, SunMax)
}
