package renderer

import (
	"testing"

	vk "github.com/goki/vulkan"
)

// fakeCycle wires a frameCycle to counters instead of the vulkan API so the loop protocol can
// be driven through staleness scenarios without a device.
type fakeCycle struct {
	fc frameCycle

	acquireResults []vk.Result
	presentResults []vk.Result
	acquires       int
	waits          int
	refreshes      int
	submits        int
	presents       int
	recreates      int
}

func newFakeCycle(numSlots int) *fakeCycle {
	f := &fakeCycle{}
	f.fc = frameCycle{
		numSlots: numSlots,
		acquire: func(slot int) (uint32, vk.Result) {
			result := vk.Success
			if f.acquires < len(f.acquireResults) {
				result = f.acquireResults[f.acquires]
			}
			f.acquires++
			return uint32(slot), result
		},
		waitSlot: func(slot int, image uint32) { f.waits++ },
		refresh:  func(slot int, image uint32) { f.refreshes++ },
		submit:   func(slot int, image uint32) vk.Result { f.submits++; return vk.Success },
		present: func(slot int, image uint32) vk.Result {
			result := vk.Success
			if f.presents < len(f.presentResults) {
				result = f.presentResults[f.presents]
			}
			f.presents++
			return result
		},
		recreate: func() { f.recreates++ },
	}
	return f
}

func TestStepAdvancesSlotModulo(t *testing.T) {
	f := newFakeCycle(3)
	for i := 0; i < 7; i++ {
		if recreated := f.fc.step(false); recreated {
			t.Fatalf("iteration %d reported recreation on healthy chain", i)
		}
	}
	if f.fc.slot != 7%3 {
		t.Errorf("slot = %d, want %d", f.fc.slot, 7%3)
	}
	if f.submits != 7 || f.presents != 7 || f.waits != 7 || f.refreshes != 7 {
		t.Errorf("phase counts diverged: waits=%d refreshes=%d submits=%d presents=%d",
			f.waits, f.refreshes, f.submits, f.presents)
	}
}

func TestStepAcquireOutOfDateSkipsFrame(t *testing.T) {
	f := newFakeCycle(3)
	// Healthy, healthy, out of date, then healthy again
	f.acquireResults = []vk.Result{vk.Success, vk.Success, vk.ErrorOutOfDate, vk.Success}

	f.fc.step(false)
	f.fc.step(false)
	slotBefore := f.fc.slot

	if recreated := f.fc.step(false); !recreated {
		t.Fatalf("out of date acquire must report recreation")
	}
	if f.recreates != 1 {
		t.Errorf("recreates = %d, want 1", f.recreates)
	}
	// Nothing past acquire may run and the slot must not advance, its semaphore is still unsignalled
	if f.waits != 2 || f.submits != 2 || f.presents != 2 {
		t.Errorf("skipped frame still ran phases: waits=%d submits=%d presents=%d", f.waits, f.submits, f.presents)
	}
	if f.fc.slot != slotBefore {
		t.Errorf("slot advanced from %d to %d on skipped frame", slotBefore, f.fc.slot)
	}

	// Loop resumes normally afterwards
	if recreated := f.fc.step(false); recreated {
		t.Errorf("healthy frame after recovery reported recreation")
	}
	if f.submits != 3 {
		t.Errorf("submits = %d after recovery, want 3", f.submits)
	}
}

func TestStepPresentSuboptimalRecreatesAfterDelivery(t *testing.T) {
	f := newFakeCycle(2)
	f.presentResults = []vk.Result{vk.Suboptimal}

	if recreated := f.fc.step(false); !recreated {
		t.Fatalf("suboptimal present must report recreation")
	}
	// The frame was still delivered before the chain was replaced
	if f.submits != 1 || f.presents != 1 {
		t.Errorf("frame not delivered: submits=%d presents=%d", f.submits, f.presents)
	}
	if f.recreates != 1 {
		t.Errorf("recreates = %d, want 1", f.recreates)
	}
	if f.fc.slot != 1 {
		t.Errorf("slot = %d, want 1 after delivered frame", f.fc.slot)
	}
}

func TestStepPresentOutOfDateRecreates(t *testing.T) {
	f := newFakeCycle(2)
	f.presentResults = []vk.Result{vk.ErrorOutOfDate}

	if recreated := f.fc.step(false); !recreated {
		t.Fatalf("out of date present must report recreation")
	}
	if f.recreates != 1 {
		t.Errorf("recreates = %d, want 1", f.recreates)
	}
}

func TestStepResizePendingForcesRecreation(t *testing.T) {
	f := newFakeCycle(3)

	if recreated := f.fc.step(true); !recreated {
		t.Fatalf("pending resize must force recreation")
	}
	// Even with a healthy present the resize consumes a full recreation
	if f.recreates != 1 || f.presents != 1 {
		t.Errorf("recreates=%d presents=%d", f.recreates, f.presents)
	}
	if recreated := f.fc.step(false); recreated {
		t.Errorf("recreation repeated without a new resize")
	}
}
