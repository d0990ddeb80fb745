package renderer

import (
	"log"

	vk "github.com/goki/vulkan"
)

// frameCycle drives one frame through acquire, wait, submit and present while reacting to the
// two staleness results the swap chain can report. The actual vulkan work is injected as
// functions so the protocol itself runs against fakes in tests.
//
// Slots index the semaphore/fence sets and advance modulo numSlots once per delivered or
// skipped frame. The image index returned by acquire selects command buffer, uniform buffer
// and descriptor set, it is not required to match the slot.
type frameCycle struct {
	numSlots int
	slot     int

	// acquire asks the swap chain for the next image using the slot's imageAvailable semaphore.
	acquire func(slot int) (uint32, vk.Result)
	// waitSlot blocks until both the slot's fence and any fence still guarding the acquired
	// image are signalled, then re-arms the slot fence for this frame's submission.
	waitSlot func(slot int, image uint32)
	// refresh writes the frame's uniform data into the image's mapped uniform buffer.
	refresh func(slot int, image uint32)
	// submit hands the image's command buffer to the graphics queue, fenced on the slot.
	submit func(slot int, image uint32) vk.Result
	// present queues the rendered image for display, gated on the slot's renderFinished semaphore.
	present func(slot int, image uint32) vk.Result
	// recreate rebuilds the swap chain and everything derived from it.
	recreate func()
}

// step runs a single loop iteration. resizePending reports a window resize observed since the
// last frame. The return value states whether a swap chain recreation took place, so the
// caller knows the resize has been consumed.
func (fc *frameCycle) step(resizePending bool) bool {
	image, result := fc.acquire(fc.slot)
	if result == vk.ErrorOutOfDate {
		// The chain is unusable, nothing was acquired. Skip this frame entirely, the slot's
		// semaphore was not waited on so the slot must not advance either.
		fc.recreate()
		return true
	} else if result != vk.Success && result != vk.Suboptimal {
		log.Panicf("Failed to acquire image, AcquireNextImage(...) result code: %d", result)
	}

	fc.waitSlot(fc.slot, image)
	fc.refresh(fc.slot, image)

	if result := fc.submit(fc.slot, image); result != vk.Success {
		log.Panicf("Failed to submit command buffer, QueueSubmit(...) result code: %d", result)
	}

	result = fc.present(fc.slot, image)
	recreated := false
	// Suboptimal at present time still counts as a delivered frame, recreation happens after.
	if result == vk.ErrorOutOfDate || result == vk.Suboptimal || resizePending {
		fc.recreate()
		recreated = true
	} else if result != vk.Success {
		log.Panicf("Failed to present image, QueuePresent(...) result code: %d", result)
	}

	fc.slot = (fc.slot + 1) % fc.numSlots
	return recreated
}
