package core

import "errors"

// ConfigError reports a request that was rejected before any hardware
// register was touched. Always caller-recoverable.
type ConfigError string

func (e ConfigError) Error() string { return string(e) }

// LifecycleError reports an operation attempted on a peripheral handle in
// the wrong state (not enabled, already enabled, already started). This is
// a programming error, not a bus condition, and is kept distinct from both
// ConfigError and BusFault so callers can fail fast instead of retrying.
type LifecycleError string

func (e LifecycleError) Error() string { return string(e) }

const (
	ErrInvalidAddress = ConfigError("i2c: address out of 7-bit range")
	ErrInvalidWidth   = ConfigError("dma: transfer width must be 1, 2 or 4")
	ErrZeroCount      = ConfigError("dma: transfer count must be at least 1")
	ErrCountTooLarge  = ConfigError("dma: transfer count exceeds hardware maximum")
	ErrShortBuffer    = ConfigError("dma: buffer shorter than count x width")
	ErrNilRegister    = ConfigError("dma: peripheral register address is zero")
	ErrNoSuchChannel  = ConfigError("dma: channel index out of range")
	ErrChannelTaken   = ConfigError("dma: channel already held")

	ErrAlreadyEnabled = LifecycleError("dma: controller already enabled")
	ErrNotEnabled     = LifecycleError("dma: controller not enabled")
	ErrChannelArmed   = LifecycleError("dma: channel has a transfer in flight")
	ErrNotArmed       = LifecycleError("dma: channel has no transfer in flight")
	ErrAlreadyStarted = LifecycleError("i2c: transaction already started")
	ErrNotStarted     = LifecycleError("i2c: transaction not started")
	ErrModeEnabled    = LifecycleError("i2c: mode already enabled on this bus")
)

// BusFault is a hardware-reported I2C protocol failure, surfaced per-case
// to the master caller. The core never retries a faulted transaction; the
// channel and descriptor state of a half-finished transfer are unusable
// until re-configured.
type BusFault uint8

const (
	FaultNone BusFault = iota
	FaultNackAddress
	FaultNackData
	FaultArbitrationLost
	FaultTimeout
)

func (f BusFault) Error() string {
	switch f {
	case FaultNackAddress:
		return "i2c: address not acknowledged"
	case FaultNackData:
		return "i2c: data byte not acknowledged"
	case FaultArbitrationLost:
		return "i2c: arbitration lost"
	case FaultTimeout:
		return "i2c: bus timeout"
	}
	return "i2c: no fault"
}

// HardwareFault is an unexpected fault code in the slave path. There is no
// channel to report it on; the surrounding application must treat it as
// fatal, because an unacknowledged slave stalls the bus for everyone.
type HardwareFault struct {
	Code uint8
}

func (f *HardwareFault) Error() string {
	return "i2c: unrecoverable slave hardware fault"
}

var (
	// ErrWouldBlock is the normal "no event pending" result of a slave
	// poll. It is not a failure; the shared interrupt line was raised for
	// someone else, or not at all.
	ErrWouldBlock = errors.New("i2c: no event pending")

	// ErrTransferAborted reports a DMA error flag raised mid-transfer.
	ErrTransferAborted = errors.New("dma: transfer aborted by hardware")
)
