package common

import (
	"errors"
	"fmt"
	"log"

	vk "github.com/goki/vulkan"
)

// The renderer distinguishes four queue roles: graphics for draw submission, transfer for
// staging copies, compute for dispatch work and present for handing finished images to the
// surface. A single hardware queue family may end up serving several roles on smaller GPUs.

const (
	queueRoleGraphics = iota
	queueRoleTransfer
	queueRoleCompute
	queueRolePresent
	queueRoleCount
)

var queueRoleNames = [queueRoleCount]string{"graphics", "transfer", "compute", "present"}

type QueueFamilyIndices struct {
	GraphicsFamily *uint32
	TransferFamily *uint32
	ComputeFamily  *uint32
	PresentFamily  *uint32
}

// QueueSlot names one concrete queue on the logical device as (family, index in family).
type QueueSlot struct {
	Family uint32
	Index  uint32
}

// QueueSlots holds the concrete queue each role will be retrieved from after device creation.
type QueueSlots struct {
	Graphics QueueSlot
	Transfer QueueSlot
	Compute  QueueSlot
	Present  QueueSlot
}

func findQueueFamilies(pd vk.PhysicalDevice, surf vk.Surface) (*QueueFamilyIndices, error) {
	qFamilies := ReadQueueFamilies(pd)
	return resolveQueueFamilies(qFamilies, func(family uint32) bool {
		var presentSupport vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(pd, family, surf, &presentSupport)
		return presentSupport > 0
	})
}

// resolveQueueFamilies assigns the four queue roles to the given families in two passes. The
// first pass hands every role its own family where possible, in priority order graphics,
// transfer, compute, present. Roles left empty after that get a second pass that may share a
// family already claimed by another role. Only the pure family properties and a present
// predicate are consumed here, so the assignment logic stays independent of a live device.
func resolveQueueFamilies(qFamilies []vk.QueueFamilyProperties, supportsPresent func(uint32) bool) (*QueueFamilyIndices, error) {
	satisfies := [queueRoleCount]func(uint32) bool{
		queueRoleGraphics: func(i uint32) bool { return isBitSet(qFamilies[i], vk.QueueGraphicsBit) },
		queueRoleTransfer: func(i uint32) bool { return isBitSet(qFamilies[i], vk.QueueTransferBit) },
		queueRoleCompute:  func(i uint32) bool { return isBitSet(qFamilies[i], vk.QueueComputeBit) },
		queueRolePresent:  supportsPresent,
	}

	var resolved [queueRoleCount]*uint32
	claimed := make(map[uint32]bool)

	// Pass 1: dedicated families, each family claimed by at most one role
	for role := 0; role < queueRoleCount; role++ {
		for i := range qFamilies {
			fam := uint32(i)
			if claimed[fam] || !satisfies[role](fam) {
				continue
			}
			resolved[role] = &fam
			claimed[fam] = true
			break
		}
	}

	// Pass 2: unresolved roles may share an already claimed family
	for role := 0; role < queueRoleCount; role++ {
		if resolved[role] != nil {
			continue
		}
		for i := range qFamilies {
			fam := uint32(i)
			if satisfies[role](fam) {
				resolved[role] = &fam
				break
			}
		}
		if resolved[role] == nil {
			return nil, fmt.Errorf("unable to find %s capable queue family", queueRoleNames[role])
		}
	}

	indices := &QueueFamilyIndices{
		GraphicsFamily: resolved[queueRoleGraphics],
		TransferFamily: resolved[queueRoleTransfer],
		ComputeFamily:  resolved[queueRoleCompute],
		PresentFamily:  resolved[queueRolePresent],
	}
	return indices, nil
}

func isBitSet(qFamily vk.QueueFamilyProperties, bit vk.QueueFlagBits) bool {
	return vk.QueueFlagBits(qFamily.QueueFlags)&bit > 0
}

func (q *QueueFamilyIndices) isAllQueuesFound() bool {
	return q.GraphicsFamily != nil && q.TransferFamily != nil && q.ComputeFamily != nil && q.PresentFamily != nil
}

func (q *QueueFamilyIndices) roleFamilies() ([queueRoleCount]uint32, error) {
	var fams [queueRoleCount]uint32
	ptrs := [queueRoleCount]*uint32{q.GraphicsFamily, q.TransferFamily, q.ComputeFamily, q.PresentFamily}
	for role, p := range ptrs {
		if p == nil {
			return fams, errors.New("queue family index for role " + queueRoleNames[role] + " was nil")
		}
		fams[role] = *p
	}
	return fams, nil
}

// resolveQueueSlots spreads the four roles over the queues their families actually expose.
// Roles sharing a family receive incrementing queue indices until the family's QueueCount is
// exhausted, after which the last queue is shared. A single-queue family can therefore legally
// serve all four roles through queue 0.
func (q *QueueFamilyIndices) resolveQueueSlots(qFamilies []vk.QueueFamilyProperties) (QueueSlots, error) {
	fams, err := q.roleFamilies()
	if err != nil {
		return QueueSlots{}, err
	}
	nextInFamily := make(map[uint32]uint32)
	var slots [queueRoleCount]QueueSlot
	for role := 0; role < queueRoleCount; role++ {
		fam := fams[role]
		idx := nextInFamily[fam]
		if max := qFamilies[fam].QueueCount; idx >= max {
			idx = max - 1
		}
		slots[role] = QueueSlot{Family: fam, Index: idx}
		nextInFamily[fam]++
	}
	return QueueSlots{
		Graphics: slots[queueRoleGraphics],
		Transfer: slots[queueRoleTransfer],
		Compute:  slots[queueRoleCompute],
		Present:  slots[queueRolePresent],
	}, nil
}

// toQueueCreateInfos emits one create info per distinct family. The requested queue count per
// family is the highest slot index assigned to it plus one, so a (family, index) pair is never
// requested twice.
func (s *QueueSlots) toQueueCreateInfos() []vk.DeviceQueueCreateInfo {
	maxIdx := make(map[uint32]uint32)
	var order []uint32
	for _, slot := range []QueueSlot{s.Graphics, s.Transfer, s.Compute, s.Present} {
		if _, seen := maxIdx[slot.Family]; !seen {
			order = append(order, slot.Family)
			maxIdx[slot.Family] = slot.Index
		} else if slot.Index > maxIdx[slot.Family] {
			maxIdx[slot.Family] = slot.Index
		}
	}
	infos := make([]vk.DeviceQueueCreateInfo, len(order))
	for i, fam := range order {
		count := maxIdx[fam] + 1
		priorities := make([]float32, count)
		for p := range priorities {
			priorities[p] = 1.0
		}
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			PNext:            nil,
			Flags:            0,
			QueueFamilyIndex: fam,
			QueueCount:       count,
			PQueuePriorities: priorities,
		}
	}
	return infos
}

func (q *QueueFamilyIndices) logAssignment() {
	fams, err := q.roleFamilies()
	if err != nil {
		log.Panicf("Failed to log queue family assignment: %s", err)
	}
	for role := 0; role < queueRoleCount; role++ {
		log.Printf("Queue role '%s' -> family %d", queueRoleNames[role], fams[role])
	}
}
