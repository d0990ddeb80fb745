package common

import (
	"math"
	"testing"

	vk "github.com/goki/vulkan"
)

func TestSelectSwapSurfaceFormatPrefersSrgb(t *testing.T) {
	s := SwapChainDetails{
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
	}
	f := s.selectSwapSurfaceFormat(vk.FormatR8g8b8a8Srgb, vk.ColorSpaceSrgbNonlinear)
	if f.Format != vk.FormatR8g8b8a8Srgb || f.ColorSpace != vk.ColorSpaceSrgbNonlinear {
		t.Errorf("selected format %v, want R8G8B8A8_SRGB / SRGB_NONLINEAR", f)
	}
}

func TestSelectSwapSurfaceFormatFallsBackToFirst(t *testing.T) {
	s := SwapChainDetails{
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
	}
	f := s.selectSwapSurfaceFormat(vk.FormatR8g8b8a8Srgb, vk.ColorSpaceSrgbNonlinear)
	if f.Format != vk.FormatB8g8r8a8Unorm {
		t.Errorf("selected format %v, want first available as fallback", f)
	}
}

func TestSelectSwapPresentModePrefersMailbox(t *testing.T) {
	s := SwapChainDetails{
		presentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
	}
	if pm := s.selectSwapPresentMode(vk.PresentModeMailbox); pm != vk.PresentModeMailbox {
		t.Errorf("selected present mode %v, want MAILBOX", pm)
	}
}

func TestSelectSwapPresentModeFallsBackToFifo(t *testing.T) {
	s := SwapChainDetails{
		presentModes: []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo},
	}
	if pm := s.selectSwapPresentMode(vk.PresentModeMailbox); pm != vk.PresentModeFifo {
		t.Errorf("selected present mode %v, want FIFO fallback", pm)
	}
}

func TestSelectSwapExtentTrustsCurrentExtent(t *testing.T) {
	s := SwapChainDetails{
		capabilities: vk.SurfaceCapabilities{
			CurrentExtent: vk.Extent2D{Width: 800, Height: 600},
		},
	}
	e := s.selectSwapExtent(1920, 1080)
	if e.Width != 800 || e.Height != 600 {
		t.Errorf("extent = %dx%d, want surface's 800x600", e.Width, e.Height)
	}
}

func TestSelectSwapExtentClampsOnSentinel(t *testing.T) {
	s := SwapChainDetails{
		capabilities: vk.SurfaceCapabilities{
			CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
			MinImageExtent: vk.Extent2D{Width: 64, Height: 64},
			MaxImageExtent: vk.Extent2D{Width: 1600, Height: 900},
		},
	}
	e := s.selectSwapExtent(1920, 32)
	if e.Width != 1600 {
		t.Errorf("width = %d, want clamped to 1600", e.Width)
	}
	if e.Height != 64 {
		t.Errorf("height = %d, want clamped to 64", e.Height)
	}
}

func TestSelectImageCount(t *testing.T) {
	cases := []struct {
		name     string
		min, max uint32
		want     uint32
	}{
		{"min plus one", 2, 8, 3},
		{"clamped to max", 3, 3, 3},
		{"unbounded max", 2, 0, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := SwapChainDetails{
				capabilities: vk.SurfaceCapabilities{
					MinImageCount: c.min,
					MaxImageCount: c.max,
				},
			}
			if got := s.selectImageCount(); got != c.want {
				t.Errorf("selectImageCount() = %d, want %d", got, c.want)
			}
		})
	}
}

// Full negotiation against a typical desktop surface
func TestNegotiationEndToEnd(t *testing.T) {
	s := SwapChainDetails{
		capabilities: vk.SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 8,
			CurrentExtent: vk.Extent2D{Width: 1280, Height: 720},
		},
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatR8g8b8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		presentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
	}
	f := s.selectSwapSurfaceFormat(vk.FormatR8g8b8a8Srgb, vk.ColorSpaceSrgbNonlinear)
	pm := s.selectSwapPresentMode(vk.PresentModeMailbox)
	e := s.selectSwapExtent(1280, 720)
	cnt := s.selectImageCount()

	if f.Format != vk.FormatR8g8b8a8Srgb {
		t.Errorf("format = %v", f.Format)
	}
	if pm != vk.PresentModeMailbox {
		t.Errorf("present mode = %v", pm)
	}
	if e.Width != 1280 || e.Height != 720 {
		t.Errorf("extent = %dx%d", e.Width, e.Height)
	}
	if cnt != 3 {
		t.Errorf("image count = %d, want 3", cnt)
	}
}
