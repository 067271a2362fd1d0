package usecase

import (
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

// SyncedAccessor is the only interface playback/rendering consumers see:
// lookups take and return original-frame-indexed views, the mapping stays
// hidden. Safe for concurrent readers; nothing is mutated after construction.
type SyncedAccessor struct {
	processed []model.ProcessedFrame
	mapping   *model.FrameIndexMapping
}

func NewSyncedAccessor(originalCount int, processed []model.ProcessedFrame) *SyncedAccessor {
	return &SyncedAccessor{
		processed: processed,
		mapping:   model.NewFrameIndexMapping(originalCount, processed),
	}
}

// Mapping exposes the underlying index mapping for consumers that persist
// or inspect it.
func (a *SyncedAccessor) Mapping() *model.FrameIndexMapping {
	return a.mapping
}

// GetFrame returns the processed frame serving the original index, clamping
// out-of-range queries. It returns nil only when the processed sequence is
// empty.
func (a *SyncedAccessor) GetFrame(originalIndex int) *model.ProcessedFrame {
	if len(a.processed) == 0 {
		return nil
	}
	p, ok := a.mapping.OriginalToProcessed(a.clamp(originalIndex))
	if !ok {
		return nil
	}
	return &a.processed[p]
}

// GetFrameRange returns the de-duplicated, order-preserved processed frames
// whose mapped range covers [startOriginal, endOriginal]. Bounds are clamped;
// an inverted range yields an empty slice.
func (a *SyncedAccessor) GetFrameRange(startOriginal, endOriginal int) []model.ProcessedFrame {
	out := []model.ProcessedFrame{}
	if len(a.processed) == 0 || startOriginal > endOriginal {
		return out
	}

	start := a.clamp(startOriginal)
	end := a.clamp(endOriginal)

	last := -1
	for orig := start; orig <= end; orig++ {
		p, ok := a.mapping.OriginalToProcessed(orig)
		if !ok || p == last {
			continue
		}
		out = append(out, a.processed[p])
		last = p
	}
	return out
}

func (a *SyncedAccessor) clamp(originalIndex int) int {
	if originalIndex < 0 {
		return 0
	}
	if originalIndex >= a.mapping.OriginalCount() {
		return a.mapping.OriginalCount() - 1
	}
	return originalIndex
}
