package core

import (
	"testing"

	"github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestChannelU8RoundTrip(t *testing.T) {
	c := quicktest.New(t)
	ch := NewChannelWithLength(KindU8, 4)
	ch.ExtendBytes(nil) // no-op, exercises the empty path
	view, err := ch.U8()
	c.Assert(err, quicktest.IsNil)
	c.Assert(len(view), quicktest.Equals, 4)

	for i := range view {
		view[i] = byte(i * 10)
	}
	again, err := ch.U8()
	c.Assert(err, quicktest.IsNil)
	if diff := cmp.Diff([]byte{0, 10, 20, 30}, again); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}
}

func TestChannelKindMismatch(t *testing.T) {
	ch := NewChannelWithLength(KindU8, 2)
	if _, err := ch.U16(); err == nil {
		t.Fatal("expected kind mismatch error")
	}
}

func TestChannelU16RoundTrip(t *testing.T) {
	ch := NewChannel(KindU16)
	if err := ch.SetU16([]uint16{0x0102, 0xffff, 0}); err != nil {
		t.Fatal(err)
	}
	if ch.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ch.Len())
	}
	got, err := ch.U16()
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{0x0102, 0xffff, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestChannelLengthNotDivisible(t *testing.T) {
	if _, err := NewChannelFromBytes(KindU16, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected ErrLengthNotDivisible")
	}
}

func TestFrameInvariants(t *testing.T) {
	y := NewChannelWithLength(KindU8, 4)
	a := NewChannelWithLength(KindU8, 4)
	f, err := NewFrame(LumaA, Duration{}, y, a)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumPixels() != 4 {
		t.Fatalf("NumPixels() = %d, want 4", f.NumPixels())
	}
	if f.Alpha() != a {
		t.Fatal("Alpha() did not return the alpha channel")
	}

	mismatched := NewChannelWithLength(KindU8, 3)
	if _, err := NewFrame(LumaA, Duration{}, y, mismatched); err == nil {
		t.Fatal("expected mismatched-length error")
	}
}

func TestFrameWriteRGBABroadcastsLuma(t *testing.T) {
	y := NewChannelWithLength(KindU8, 2)
	_ = y.SetU16 // not used; keep U8 path
	view, _ := y.U8()
	view[0], view[1] = 10, 200

	f, err := NewFrame(Luma, Duration{}, y)
	if err != nil {
		t.Fatal(err)
	}
	rgba, err := f.WriteRGBA()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 10, 10, 255, 200, 200, 200, 255}
	if diff := cmp.Diff(want, rgba); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
