package common

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestAllOfAinB(t *testing.T) {
	b := []string{"VK_KHR_surface", "VK_KHR_swapchain", "VK_EXT_debug_utils"}
	if !AllOfAinB([]string{"VK_KHR_swapchain"}, b) {
		t.Errorf("expected subset to be reported as contained")
	}
	if AllOfAinB([]string{"VK_KHR_swapchain", "VK_KHR_maintenance1"}, b) {
		t.Errorf("expected missing extension to be reported")
	}
	if !AllOfAinB(nil, b) {
		t.Errorf("empty list is trivially contained")
	}
}

func TestClampUint32(t *testing.T) {
	if got := ClampUint32(5, 10, 20); got != 10 {
		t.Errorf("ClampUint32(5, 10, 20) = %d", got)
	}
	if got := ClampUint32(25, 10, 20); got != 20 {
		t.Errorf("ClampUint32(25, 10, 20) = %d", got)
	}
	if got := ClampUint32(15, 10, 20); got != 15 {
		t.Errorf("ClampUint32(15, 10, 20) = %d", got)
	}
}

func TestTerminatedStr(t *testing.T) {
	if got := TerminatedStr("VK_LAYER_KHRONOS_validation"); got[len(got)-1] != '\x00' {
		t.Errorf("string not terminated: %q", got)
	}
	once := TerminatedStr("abc\x00")
	if once != "abc\x00" {
		t.Errorf("already terminated string was modified: %q", once)
	}
}

func TestRawBytesFloats(t *testing.T) {
	in := []float32{1, 0.5, -2}
	b := RawBytes(in)
	if len(b) != 12 {
		t.Fatalf("RawBytes produced %d bytes, want 12", len(b))
	}
	for i, want := range in {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
		if got != want {
			t.Errorf("element %d = %f, want %f", i, got, want)
		}
	}
}

func TestAsUint32Arr(t *testing.T) {
	// SPIR-V magic number in little endian byte order
	data := []byte{0x03, 0x02, 0x23, 0x07}
	words := AsUint32Arr(data)
	if len(words) != 1 {
		t.Fatalf("got %d words, want 1", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("word = %#x, want 0x07230203", words[0])
	}
}
