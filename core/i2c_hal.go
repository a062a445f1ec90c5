package core

// Address is a 7-bit I2C slave address.
type Address uint8

// MaxAddress is the largest valid 7-bit address.
const MaxAddress Address = 0x7F

// Direction is the data direction of a master transaction.
type Direction uint8

const (
	DirWrite Direction = iota
	DirRead
)

// SlaveEvent is the one pending-event indicator the slave state machine
// reads per invocation.
type SlaveEvent uint8

const (
	EventNone SlaveEvent = iota
	EventAddressMatched
	EventRxReady
	EventTxReady
	EventBusError
	EventArbitrationLost
)

// BusHardware is the register-level surface of one I2C instance, carrying
// both the master and the slave role of the same electrical bus.
//
// The master methods are used from the foreground loop and may be followed
// by busy-polling; the slave methods are used from interrupt context and
// must each be a single non-blocking register access.
type BusHardware interface {
	// Peripheral identifies this instance for clock gating.
	Peripheral() PeripheralID

	// Functions returns the movable pin functions of this instance's
	// clock and data lines.
	Functions() (scl, sda FunctionID)

	// ConfigureMaster sets the bus clock and enables the master role.
	ConfigureMaster(clockHz uint32)

	// MasterStart asserts a START condition and sends addr with the R/W
	// bit for dir. Non-blocking; completion is observed via MasterIdle
	// and MasterFault.
	MasterStart(addr Address, dir Direction)

	// MasterStop asserts a STOP condition once the data phase is done.
	MasterStop()

	// MasterIdle reports whether the master state machine is idle (the
	// STOP condition has been driven and the bus released).
	MasterIdle() bool

	// MasterFault returns the current fault classification, or FaultNone.
	MasterFault() BusFault

	// ClearMasterFault acknowledges a fault so the master can be re-used.
	ClearMasterFault()

	// DataRegister returns the address of the master data register, the
	// fixed end of every master-path DMA transfer.
	DataRegister() uintptr

	// MasterTrigger returns the DMA request line that paces master data
	// transfers in both directions.
	MasterTrigger() TriggerSource

	// ConfigureSlave programs the slave address and enables the slave
	// role.
	ConfigureSlave(addr Address)

	// SlaveEvent reads the pending-event indicator. EventNone means the
	// shared interrupt line was raised for something else, or not at all.
	SlaveEvent() SlaveEvent

	// SlaveContinue acknowledges the current slave phase and releases the
	// clock stretch.
	SlaveContinue()

	// SlaveRead consumes the received byte.
	SlaveRead() byte

	// SlaveWrite stages a byte for transmission. The caller must follow
	// with SlaveContinue to clock it out.
	SlaveWrite(b byte)

	// SlaveErrorCode returns the raw fault code after EventBusError or
	// EventArbitrationLost.
	SlaveErrorCode() uint8
}
