package compose

// Conversion constants between pt and mm. The canvas coordinate system is
// mm; font sizes are specified in pt and converted at the boundary.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)
