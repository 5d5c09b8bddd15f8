package valueobject

// VitalsSnapshot is an immutable value object capturing a single point-in-time
// observation of patient vital signs. Snapshots have no identity and are
// compared by value.
type VitalsSnapshot struct {
	// HeartRate in beats per minute.
	HeartRate float64
	// BloodPressure is the systolic pressure in mmHg.
	BloodPressure float64
	// Oxygen is the SpO2 saturation in percent.
	Oxygen float64
	// Temperature in degrees Celsius.
	Temperature float64
	// InfectionMarker is a CRP-like unitless inflammation marker.
	InfectionMarker float64
}

// SymptomSnapshot is an immutable value object capturing the reported
// symptom flags at observation time.
type SymptomSnapshot struct {
	Pain       bool
	Breathless bool
}
