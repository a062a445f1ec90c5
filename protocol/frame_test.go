package protocol

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	events := []Event{
		{Kind: 1, Channel: 15, Value: 0x24},
		{Kind: 5, Channel: 0, Value: 0x14},
		{Kind: 6, Channel: 0, Value: 0x28},
		{Kind: 2, Channel: 15, Value: 0x24},
	}

	var enc Encoder
	var stream []byte
	for _, ev := range events {
		stream = enc.Append(stream, ev)
	}
	if len(stream) != len(events)*FrameLength {
		t.Fatalf("stream is %d bytes, want %d", len(stream), len(events)*FrameLength)
	}

	var dec Decoder
	got := dec.Feed(stream)
	if len(got) != len(events) {
		t.Fatalf("decoded %d events, want %d", len(got), len(events))
	}
	for i, ev := range events {
		if got[i] != ev {
			t.Errorf("event %d = %+v, want %+v", i, got[i], ev)
		}
	}
}

func TestDecoderSplitFeeds(t *testing.T) {
	var enc Encoder
	stream := enc.Append(nil, Event{Kind: 3, Channel: 15, Value: 1})
	stream = enc.Append(stream, Event{Kind: 8, Channel: 0, Value: 0x40})

	// Deliver one byte at a time; frames complete exactly at their
	// boundaries.
	var dec Decoder
	var got []Event
	for _, b := range stream {
		got = append(got, dec.Feed([]byte{b})...)
	}
	if len(got) != 2 {
		t.Fatalf("decoded %d events, want 2", len(got))
	}
	if got[0].Value != 1 || got[1].Value != 0x40 {
		t.Errorf("decoded %+v", got)
	}
}

func TestDecoderResyncsAfterGarbage(t *testing.T) {
	var enc Encoder
	frame := enc.Append(nil, Event{Kind: 4, Channel: 0, Value: 0})

	// Leading noise, a truncated frame, then a good one.
	stream := []byte{0x00, 0xFF, FrameSync, FrameLength, 0x01}
	stream = append(stream, frame...)

	var dec Decoder
	got := dec.Feed(stream)
	if len(got) != 1 {
		t.Fatalf("decoded %d events, want 1", len(got))
	}
	if got[0].Kind != 4 {
		t.Errorf("decoded %+v", got[0])
	}
}

func TestDecoderRejectsBadCRC(t *testing.T) {
	var enc Encoder
	frame := enc.Append(nil, Event{Kind: 5, Channel: 0, Value: 0x7F})
	frame[4] ^= 0x01 // corrupt the payload

	var dec Decoder
	if got := dec.Feed(frame); len(got) != 0 {
		t.Fatalf("accepted a corrupted frame: %+v", got)
	}

	// The decoder recovers on the next clean frame.
	frame2 := enc.Append(nil, Event{Kind: 5, Channel: 0, Value: 0x7F})
	if got := dec.Feed(frame2); len(got) != 1 || got[0].Value != 0x7F {
		t.Fatalf("did not recover after corruption: %+v", got)
	}
}

func TestSequenceRolls(t *testing.T) {
	var enc Encoder
	var prev byte
	for i := 0; i < 300; i++ {
		frame := enc.Append(nil, Event{Kind: 1})
		if i > 0 && frame[1] != prev+1 {
			t.Fatalf("frame %d: seq %d follows %d", i, frame[1], prev)
		}
		prev = frame[1]
	}
}
