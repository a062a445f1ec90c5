package core

// TriggerSource selects what starts the element transfers of an armed
// channel: software, or a peripheral DMA request line.
type TriggerSource uint8

const (
	// TriggerSoftware runs the transfer as soon as the channel is armed.
	TriggerSoftware TriggerSource = iota

	// TriggerI2CMaster paces the transfer on the I2C master data-register
	// request line (one element per bus byte, either direction).
	TriggerI2CMaster

	// TriggerI2CSlave paces the transfer on the I2C slave request line.
	TriggerI2CSlave
)

// DMAHardware is the register-level surface of the DMA controller that the
// ChannelManager drives. Target packages implement it against the real
// register map; the sim target implements it in-process for tests.
type DMAHardware interface {
	// EnableController writes the descriptor table base address and sets
	// the controller enable bit. Called once.
	EnableController(tableBase uintptr)

	// EnableChannel enables a channel and selects its trigger source.
	EnableChannel(ch int, trig TriggerSource)

	// DisableChannel disables a channel. Part of the re-configuration
	// path after completion or fault; not a mid-transfer abort.
	DisableChannel(ch int)

	// ArmChannel validates the channel's descriptor and starts the
	// transfer with the given transfer-config word. Non-blocking.
	ArmChannel(ch int, xfercfg uint32)

	// ChannelActive reports whether the channel still has a transfer in
	// flight.
	ChannelActive(ch int) bool

	// ChannelErrored reports the channel's error flag.
	ChannelErrored(ch int) bool

	// ClearChannelError acknowledges the channel's error flag.
	ClearChannelError(ch int)
}
