package core

// PinConfig names the physical pins carrying the bus clock and data lines.
type PinConfig struct {
	SCL PinID
	SDA PinID
}

// Bus is one I2C instance. It owns the one-shot bring-up (pin routing, then
// clock gating) and hands out the role engines: a Master for the foreground
// loop and a Slave for the interrupt handler. Both roles share the same
// electrical bus and the same hardware instance.
type Bus struct {
	hw     BusHardware
	sys    SystemController
	master *Master
	slave  *Slave
}

// NewBus routes the instance's pin functions and gates its clock, exactly
// once, then returns the bus with both roles still disabled.
func NewBus(hw BusHardware, sys SystemController, pins PinConfig) *Bus {
	scl, sda := hw.Functions()
	sys.AssignPinFunction(scl, pins.SCL)
	sys.AssignPinFunction(sda, pins.SDA)
	sys.EnableClock(hw.Peripheral())
	return &Bus{hw: hw, sys: sys}
}

// EnableMasterMode configures the bus clock rate and enables the master
// role. Callable once per bus.
func (b *Bus) EnableMasterMode(clockHz uint32) (*Master, error) {
	if b.master != nil {
		return nil, ErrModeEnabled
	}
	b.hw.ConfigureMaster(clockHz)
	b.master = &Master{hw: b.hw}
	return b.master, nil
}

// EnableSlaveMode programs the slave address and enables the slave role.
// respond transforms the last received byte into the reply clocked out on
// a master read; nil means reply with the byte unchanged. Callable once
// per bus.
func (b *Bus) EnableSlaveMode(addr Address, respond func(byte) byte) (*Slave, error) {
	if addr > MaxAddress {
		return nil, ErrInvalidAddress
	}
	if b.slave != nil {
		return nil, ErrModeEnabled
	}
	if respond == nil {
		respond = func(b byte) byte { return b }
	}
	b.hw.ConfigureSlave(addr)
	b.slave = &Slave{hw: b.hw, respond: respond}
	return b.slave, nil
}
