package core

// PeripheralID names a clock-gated hardware block.
type PeripheralID uint8

const (
	PeriphDMA PeripheralID = iota
	PeriphI2C0
	PeriphUSART0
)

// FunctionID names a movable pin function routed through the switch matrix.
type FunctionID uint8

const (
	FuncI2C0SCL FunctionID = iota
	FuncI2C0SDA
	FuncUSART0TXD
)

// PinID names a physical pin.
type PinID uint8

// SystemController is the slice of system-level hardware the engine
// consumes: clock gating, pin-function routing and sleep entry. Each call
// is a one-shot register write with no state machine behind it.
//
// EnableClock must be called exactly once per peripheral before any other
// operation on it; register writes to an unclocked peripheral are undefined
// hardware behavior, not a recoverable error.
type SystemController interface {
	EnableClock(p PeripheralID)
	DisableClock(p PeripheralID)

	// AssignPinFunction routes a movable function to a pin. Must happen
	// before the peripheral is enabled for data transfer. No electrical
	// validation is performed.
	AssignPinFunction(f FunctionID, pin PinID)

	// EnterLowPowerMode suspends the CPU core until the next interrupt.
	// A pending slave bus event wakes it; the busy-wait master path never
	// calls this.
	EnterLowPowerMode()
}
