package catagen

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.
const (
	emuPerInch  = 914400
	emuPerPoint = 12700
)

// Inch converts inches to EMU.
func Inch(n float64) int64 {
	return int64(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return int64(n * emuPerPoint)
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu int64) float64 {
	return float64(emu) / emuPerInch
}
