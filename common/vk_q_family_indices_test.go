package common

import (
	"testing"

	vk "github.com/goki/vulkan"
)

func famProps(queueCount uint32, flags vk.QueueFlagBits) vk.QueueFamilyProperties {
	return vk.QueueFamilyProperties{
		QueueFlags: vk.QueueFlags(flags),
		QueueCount: queueCount,
	}
}

func presentOn(families ...uint32) func(uint32) bool {
	return func(fam uint32) bool {
		for _, f := range families {
			if f == fam {
				return true
			}
		}
		return false
	}
}

func TestResolveQueueFamiliesDedicated(t *testing.T) {
	// Typical discrete GPU layout: one do-everything family, a dedicated transfer family and
	// a compute family.
	qFamilies := []vk.QueueFamilyProperties{
		famProps(16, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
		famProps(2, vk.QueueTransferBit),
		famProps(8, vk.QueueComputeBit|vk.QueueTransferBit),
	}
	q, err := resolveQueueFamilies(qFamilies, presentOn(0, 2))
	if err != nil {
		t.Fatalf("resolveQueueFamilies failed: %s", err)
	}
	if !q.isAllQueuesFound() {
		t.Fatalf("not all roles resolved: %+v", q)
	}
	if *q.GraphicsFamily != 0 {
		t.Errorf("graphics family = %d, want 0", *q.GraphicsFamily)
	}
	if *q.TransferFamily != 1 {
		t.Errorf("transfer family = %d, want 1", *q.TransferFamily)
	}
	if *q.ComputeFamily != 2 {
		t.Errorf("compute family = %d, want 2", *q.ComputeFamily)
	}
	// Families 0 and 2 are claimed, present falls into the sharing pass and takes family 0
	if *q.PresentFamily != 0 {
		t.Errorf("present family = %d, want 0", *q.PresentFamily)
	}
}

func TestResolveQueueFamiliesSingleFamily(t *testing.T) {
	// Minimal layout, one family must carry all four roles
	qFamilies := []vk.QueueFamilyProperties{
		famProps(1, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
	}
	q, err := resolveQueueFamilies(qFamilies, presentOn(0))
	if err != nil {
		t.Fatalf("resolveQueueFamilies failed: %s", err)
	}
	for role, fam := range []*uint32{q.GraphicsFamily, q.TransferFamily, q.ComputeFamily, q.PresentFamily} {
		if fam == nil || *fam != 0 {
			t.Errorf("role %s not assigned to family 0: %v", queueRoleNames[role], fam)
		}
	}
}

func TestResolveQueueFamiliesMissingRole(t *testing.T) {
	// No family supports presentation
	qFamilies := []vk.QueueFamilyProperties{
		famProps(4, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
	}
	_, err := resolveQueueFamilies(qFamilies, presentOn())
	if err == nil {
		t.Fatalf("expected error for missing present support")
	}
}

func TestResolveQueueSlotsSpreadsSharedFamily(t *testing.T) {
	// All roles on family 0 which exposes 4 queues, every role gets its own queue
	qFamilies := []vk.QueueFamilyProperties{
		famProps(4, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
	}
	q, err := resolveQueueFamilies(qFamilies, presentOn(0))
	if err != nil {
		t.Fatalf("resolveQueueFamilies failed: %s", err)
	}
	slots, err := q.resolveQueueSlots(qFamilies)
	if err != nil {
		t.Fatalf("resolveQueueSlots failed: %s", err)
	}
	got := map[QueueSlot]bool{}
	for _, s := range []QueueSlot{slots.Graphics, slots.Transfer, slots.Compute, slots.Present} {
		if s.Family != 0 {
			t.Errorf("slot on family %d, want 0", s.Family)
		}
		if got[s] {
			t.Errorf("slot %+v assigned twice despite free queues", s)
		}
		got[s] = true
	}
}

func TestResolveQueueSlotsClampsToQueueCount(t *testing.T) {
	// Single queue in the family, all roles have to share index 0
	qFamilies := []vk.QueueFamilyProperties{
		famProps(1, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
	}
	q, err := resolveQueueFamilies(qFamilies, presentOn(0))
	if err != nil {
		t.Fatalf("resolveQueueFamilies failed: %s", err)
	}
	slots, err := q.resolveQueueSlots(qFamilies)
	if err != nil {
		t.Fatalf("resolveQueueSlots failed: %s", err)
	}
	for _, s := range []QueueSlot{slots.Graphics, slots.Transfer, slots.Compute, slots.Present} {
		if s.Index != 0 {
			t.Errorf("slot index %d exceeds family queue count", s.Index)
		}
	}
}

func TestToQueueCreateInfosDeduplicatesFamilies(t *testing.T) {
	qFamilies := []vk.QueueFamilyProperties{
		famProps(2, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
		famProps(1, vk.QueueTransferBit),
	}
	q, err := resolveQueueFamilies(qFamilies, presentOn(0))
	if err != nil {
		t.Fatalf("resolveQueueFamilies failed: %s", err)
	}
	slots, err := q.resolveQueueSlots(qFamilies)
	if err != nil {
		t.Fatalf("resolveQueueSlots failed: %s", err)
	}
	infos := slots.toQueueCreateInfos()
	if len(infos) != 2 {
		t.Fatalf("got %d create infos, want 2", len(infos))
	}
	for _, info := range infos {
		if info.QueueCount > qFamilies[info.QueueFamilyIndex].QueueCount {
			t.Errorf("family %d requests %d queues, only %d available",
				info.QueueFamilyIndex, info.QueueCount, qFamilies[info.QueueFamilyIndex].QueueCount)
		}
		if uint32(len(info.PQueuePriorities)) != info.QueueCount {
			t.Errorf("family %d priorities length %d != queue count %d",
				info.QueueFamilyIndex, len(info.PQueuePriorities), info.QueueCount)
		}
	}
}
