package core

import "tinygo.org/x/drivers"

// BusAdapter exposes the DMA-driven master engine through the
// tinygo.org/x/drivers I2C interface, so the TinyGo device-driver
// ecosystem can run on top of it unchanged.
//
// One adapter owns one channel handle for its transactions. Tx with both a
// write and a read buffer issues two independent START/STOP transactions
// (the engine does not do repeated starts); devices that tolerate a STOP
// between the register write and the read — EEPROMs, most sensors — work
// as usual.
type BusAdapter struct {
	master *Master
	ch     *Channel
}

var _ drivers.I2C = (*BusAdapter)(nil)

// NewBusAdapter wraps a master engine and a channel handle. The channel
// stays dedicated to the adapter; take a different one for other traffic.
func NewBusAdapter(m *Master, ch *Channel) *BusAdapter {
	return &BusAdapter{master: m, ch: ch}
}

// Tx performs a write and/or read transaction with the device at addr.
// Bus faults are returned unchanged, so drivers see the classified error.
func (a *BusAdapter) Tx(addr uint16, w, r []byte) error {
	if addr > uint16(MaxAddress) {
		return ErrInvalidAddress
	}
	if len(w) > 0 {
		p, err := a.master.WriteAll(Address(addr), w, a.ch)
		if err != nil {
			return err
		}
		if _, err := p.Start(); err != nil {
			return err
		}
		if _, err := p.Wait(); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		p, err := a.master.ReadAll(Address(addr), r, a.ch)
		if err != nil {
			return err
		}
		if _, err := p.Start(); err != nil {
			return err
		}
		if _, err := p.Wait(); err != nil {
			return err
		}
	}
	return nil
}
