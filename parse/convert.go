package parse

// Conversions from raw ADC and sensor counts to engineering units. The
// divider ratios are those of the flight computers' voltage sense circuits.

// MegaBatteryVoltage converts a 12 bit battery sense reading to volts.
func MegaBatteryVoltage(v int16) float64 {
	return 3.3 * (float64(v) / 4095.0) * (5.6 + 10.0) / 10.0
}

// MegaPyroVoltage converts a 12 bit pyro channel reading to volts.
func MegaPyroVoltage(v int16) float64 {
	return 3.3 * (float64(v) / 4095.0) * (100.0 + 27.0) / 27.0
}

// MegaPyroVoltage30V is MegaPyroVoltage for boards with the 30V pyro divider.
func MegaPyroVoltage30V(v int16) float64 {
	return 3.3 * (float64(v) / 4095.0) * (100.0 + 12.0) / 12.0
}

func MiniTwoVoltage(v int16) float64 {
	return float64(v) / 32767.0 * 3.3 * 127.0 / 27.0
}

func MiniThreeBatteryVoltage(v int16) float64 {
	return MegaBatteryVoltage(v)
}

func MiniThreePyroVoltage(v int16) float64 {
	return MegaPyroVoltage(v)
}

// BarometerPressure converts a raw barometer sample to pascals.
func BarometerPressure(raw int16) float64 {
	return ((float64(raw)/16.0)/2047.0 + 0.095) / 0.009 * 1000.0
}

// ThermistorTemperature converts a raw thermistor sample to degrees C.
func ThermistorTemperature(raw int16) float64 {
	return (float64(raw) - 19791.268) / 32728.0 * 1.25 / 0.00247
}

// ContinuityVoltage converts an igniter continuity sample to volts.
func ContinuityVoltage(raw int16) float64 {
	return float64(raw) / 32767.0 * 15.0
}

// NibbleSwap exchanges the nibbles of a packed pyro sense byte. The result is
// not truncated to 8 bits: 0x12 becomes 0x121.
func NibbleSwap(v uint8) int16 {
	return int16(v)<<4 | int16(v>>4)
}
