package tess

import (
	"github.com/gogpu/care/draw"
	"github.com/gogpu/care/gpucore"
)

// slotSet is the ordered set of textures bound by one draw call. Its
// storage is a fixed array of gpucore.MaxTextureSlots entries, and add
// refuses to grow past limit, so a draw call can never reference more
// textures than the device accepts.
type slotSet struct {
	refs  [gpucore.MaxTextureSlots]draw.TextureRef
	n     int
	limit int
}

func newSlotSet(limit int) slotSet {
	return slotSet{limit: clampLimit(limit)}
}

func clampLimit(limit int) int {
	return max(1, min(limit, gpucore.MaxTextureSlots))
}

// slot returns the 1-based slot of ref, or 0 if ref is not bound.
func (s *slotSet) slot(ref draw.TextureRef) uint32 {
	for i := 0; i < s.n; i++ {
		if s.refs[i] == ref {
			return uint32(i + 1)
		}
	}
	return 0
}

// add binds ref to the next free slot and returns it. It returns 0 when
// every slot is taken.
func (s *slotSet) add(ref draw.TextureRef) uint32 {
	if s.n >= s.limit {
		return 0
	}
	s.refs[s.n] = ref
	s.n++
	return uint32(s.n)
}

func (s *slotSet) len() int { return s.n }

func (s *slotSet) slice() []draw.TextureRef {
	return s.refs[:s.n:s.n]
}
