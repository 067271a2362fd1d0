package model

// Category classifies the quality of a single raw frame.
type Category string

const (
	CategoryGood          Category = "good"
	CategoryLowConfidence Category = "lowConfidence"
	CategoryOffScreen     Category = "offScreen"
	CategoryOutlier       Category = "outlier"
)

// QualityVerdict is the analyzer's judgement of one raw frame.
// DeviationFromTrend is nil for frames without enough valid trend-window
// neighbors on both sides.
type QualityVerdict struct {
	Index              int      `json:"frameNumber"`
	Category           Category `json:"category"`
	AverageConfidence  float64  `json:"averageConfidence"`
	DeviationFromTrend *float64 `json:"deviationFromTrend,omitempty"`
}

// FrameSource marks a processed frame as detector output or synthesized.
type FrameSource string

const (
	SourceDetected     FrameSource = "detected"
	SourceInterpolated FrameSource = "interpolated"
)

// ProcessedFrame is one frame of the final filtered/interpolated sequence.
// ProcessedIndex values are dense; OriginalIndex values are strictly
// increasing across the sequence. For interpolated frames SourceFrames holds
// the original indexes of the two anchors and InterpolationFactor the
// position between them.
type ProcessedFrame struct {
	ProcessedIndex      int          `json:"processedIndex"`
	OriginalIndex       int          `json:"originalIndex"`
	Source              FrameSource  `json:"source"`
	Timestamp           float64      `json:"timestamp"`
	Keypoints           []Keypoint   `json:"keypoints"`
	MeshVertices        []Position   `json:"meshVertices,omitempty"`
	MeshFaces           [][3]int     `json:"meshFaces,omitempty"`
	BoundingBox         *BoundingBox `json:"boundingBox,omitempty"`
	SourceFrames        *[2]int      `json:"sourceFrames,omitempty"`
	InterpolationFactor float64      `json:"interpolationFactor,omitempty"`
}

// QualityStatistics accounts for every original frame exactly once:
// DetectedCount + InterpolatedCount + RemovedCount == OriginalCount.
type QualityStatistics struct {
	OriginalCount     int `json:"originalCount"`
	ProcessedCount    int `json:"processedCount"`
	DetectedCount     int `json:"detectedCount"`
	RemovedCount      int `json:"removedCount"`
	InterpolatedCount int `json:"interpolatedCount"`
}

func (s QualityStatistics) RemovedPercent() float64 {
	return percent(s.RemovedCount, s.OriginalCount)
}

func (s QualityStatistics) InterpolatedPercent() float64 {
	return percent(s.InterpolatedCount, s.OriginalCount)
}

func (s QualityStatistics) ProcessedPercent() float64 {
	return percent(s.ProcessedCount, s.OriginalCount)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// ProcessedSequence is the canonical processed output for one video:
// the frame list, its statistics and the index mapping rebuilt from them.
type ProcessedSequence struct {
	VideoID string             `json:"videoId"`
	Frames  []ProcessedFrame   `json:"frames"`
	Stats   QualityStatistics  `json:"stats"`
	Mapping *FrameIndexMapping `json:"-"`
}
