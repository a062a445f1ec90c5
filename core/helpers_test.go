package core_test

import (
	"testing"
	"unsafe"

	"i2clink/core"
	"i2clink/targets/sim"
)

// memAddr returns a buffer's address for use as the fixed "register" side
// of a transfer.
func memAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(&b[0]))
}

// rig is a full simulated device: channel manager, master engine and
// slave machine on the same bus, with the slave poll bound as the
// interrupt handler.
type rig struct {
	hw     *sim.Hardware
	table  *core.DescriptorTable
	mgr    *core.ChannelManager
	master *core.Master
	slave  *core.Slave
	ch     *core.Channel
}

const rigSlaveAddr = 0x24

func newRig(t *testing.T) *rig {
	t.Helper()
	table := new(core.DescriptorTable)
	hw := sim.New(table)

	mgr := core.NewChannelManager(hw, hw, table)
	if err := mgr.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	bus := core.NewBus(hw, hw, core.PinConfig{SCL: 10, SDA: 11})
	master, err := bus.EnableMasterMode(400_000)
	if err != nil {
		t.Fatalf("EnableMasterMode: %v", err)
	}
	slave, err := bus.EnableSlaveMode(rigSlaveAddr, func(b byte) byte {
		return b << 1
	})
	if err != nil {
		t.Fatalf("EnableSlaveMode: %v", err)
	}
	hw.SetInterruptHandler(func() {
		slave.Poll()
	})

	ch, err := mgr.Take(15)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}

	return &rig{hw: hw, table: table, mgr: mgr, master: master, slave: slave, ch: ch}
}
