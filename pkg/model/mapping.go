package model

// FrameIndexMapping provides O(1) bidirectional lookups between original
// frame numbers and positions in the processed sequence. Lookups for a
// removed original frame resolve to the nearest surviving frame at or before
// the query; originals before the first survivor resolve to the first entry.
// The mapping is immutable after construction and re-derivable at any time
// from the processed frame list.
type FrameIndexMapping struct {
	originalCount int
	toProcessed   []int
	toOriginal    []int
}

// NewFrameIndexMapping builds the mapping with a single forward scan over
// processed, O(originalCount + processedCount).
func NewFrameIndexMapping(originalCount int, processed []ProcessedFrame) *FrameIndexMapping {
	m := &FrameIndexMapping{
		originalCount: originalCount,
		toProcessed:   make([]int, originalCount),
		toOriginal:    make([]int, len(processed)),
	}

	if len(processed) == 0 {
		for i := range m.toProcessed {
			m.toProcessed[i] = -1
		}
		return m
	}

	for p, pf := range processed {
		m.toOriginal[p] = pf.OriginalIndex
	}

	p := 0
	for orig := 0; orig < originalCount; orig++ {
		for p+1 < len(processed) && processed[p+1].OriginalIndex <= orig {
			p++
		}
		m.toProcessed[orig] = p
	}

	return m
}

func (m *FrameIndexMapping) OriginalCount() int { return m.originalCount }

func (m *FrameIndexMapping) ProcessedCount() int { return len(m.toOriginal) }

// OriginalToProcessed returns the processed index serving originalIndex.
// ok is false only when the query is out of [0, originalCount) or the
// processed sequence is empty.
func (m *FrameIndexMapping) OriginalToProcessed(originalIndex int) (int, bool) {
	if originalIndex < 0 || originalIndex >= m.originalCount {
		return 0, false
	}
	p := m.toProcessed[originalIndex]
	if p < 0 {
		return 0, false
	}
	return p, true
}

// ProcessedToOriginal is an exact inverse of the stored OriginalIndex field,
// never approximate.
func (m *FrameIndexMapping) ProcessedToOriginal(processedIndex int) (int, bool) {
	if processedIndex < 0 || processedIndex >= len(m.toOriginal) {
		return 0, false
	}
	return m.toOriginal[processedIndex], true
}
