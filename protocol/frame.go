package protocol

// Event is one bus event record as it goes out on the wire. Kind values
// match the firmware's trace codes.
type Event struct {
	Kind    uint8
	Channel uint8
	Value   uint8
}

// Frame layout: length, sequence, kind, channel, value, CRC16 (big-endian)
// and a trailing sync byte. Fixed size; the length byte exists so the
// decoder can resynchronize on a corrupted stream.
const (
	FrameSync   = 0x7E
	FrameLength = 8

	frameCRCOffset = 5 // bytes covered by the CRC: len, seq, payload
)

// Encoder appends event frames, stamping a rolling sequence number.
type Encoder struct {
	seq uint8
}

// Append encodes ev and appends the frame to dst.
func (e *Encoder) Append(dst []byte, ev Event) []byte {
	start := len(dst)
	dst = append(dst, FrameLength, e.seq, ev.Kind, ev.Channel, ev.Value)
	crc := CRC16(dst[start : start+frameCRCOffset])
	dst = append(dst, byte(crc>>8), byte(crc), FrameSync)
	e.seq++
	return dst
}

// Decoder reassembles event frames from an arbitrary byte stream,
// discarding garbage until it finds a frame whose length, CRC and sync
// trailer all check out.
type Decoder struct {
	buf []byte
}

// Feed consumes a chunk of stream and returns the events completed by it.
func (d *Decoder) Feed(p []byte) []Event {
	d.buf = append(d.buf, p...)
	var out []Event
	for {
		ev, ok := d.next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func (d *Decoder) next() (Event, bool) {
	for len(d.buf) >= FrameLength {
		f := d.buf[:FrameLength]
		if f[0] != FrameLength || f[FrameLength-1] != FrameSync {
			d.buf = d.buf[1:]
			continue
		}
		crc := uint16(f[frameCRCOffset])<<8 | uint16(f[frameCRCOffset+1])
		if crc != CRC16(f[:frameCRCOffset]) {
			d.buf = d.buf[1:]
			continue
		}
		ev := Event{Kind: f[2], Channel: f[3], Value: f[4]}
		d.buf = d.buf[FrameLength:]
		return ev, true
	}
	return Event{}, false
}
