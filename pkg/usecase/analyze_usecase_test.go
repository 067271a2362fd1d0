package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

var testSize = model.ImageSize{Width: 1000, Height: 1000}

func testConfig() *model.Config {
	return &model.Config{
		MinConfidence:             0.3,
		BoundaryThreshold:         0.05,
		OffScreenConfidence:       0.5,
		OutlierDeviationThreshold: 0.25,
		TrendWindowSize:           5,
		MaxInterpolationGap:       2,
	}
}

// staticFrames builds n frames with a single keypoint at (x, y).
func staticFrames(n int, x, y, conf float64) []model.RawFrame {
	frames := make([]model.RawFrame, n)
	for i := range frames {
		frames[i] = model.RawFrame{
			Index:     i,
			Timestamp: float64(i) / 30,
			Keypoints: []model.Keypoint{{X: x, Y: y, Confidence: conf}},
		}
	}
	return frames
}

func TestAnalyzeAllGood(t *testing.T) {
	frames := staticFrames(10, 500, 500, 0.9)

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(verdicts) != len(frames) {
		t.Fatalf("got %d verdicts, want %d", len(verdicts), len(frames))
	}
	for i, v := range verdicts {
		if v.Category != model.CategoryGood {
			t.Errorf("frame %d: category %s, want good", i, v.Category)
		}
		if v.AverageConfidence != 0.9 {
			t.Errorf("frame %d: averageConfidence %v, want 0.9", i, v.AverageConfidence)
		}
	}
}

func TestAnalyzeLowConfidence(t *testing.T) {
	frames := staticFrames(6, 500, 500, 0.9)
	frames[2].Keypoints[0].Confidence = 0.1

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdicts[2].Category != model.CategoryLowConfidence {
		t.Errorf("category %s, want lowConfidence", verdicts[2].Category)
	}
	if verdicts[2].DeviationFromTrend != nil {
		t.Error("lowConfidence frame should have nil deviation")
	}
}

func TestAnalyzeZeroKeypointsIsLowConfidence(t *testing.T) {
	frames := staticFrames(4, 500, 500, 0.9)
	frames[1].Keypoints = nil

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdicts[1].AverageConfidence != 0 {
		t.Errorf("averageConfidence %v, want 0", verdicts[1].AverageConfidence)
	}
	if verdicts[1].Category != model.CategoryLowConfidence {
		t.Errorf("category %s, want lowConfidence", verdicts[1].Category)
	}
}

func TestAnalyzeZeroKeypointsWithZeroMinConfidence(t *testing.T) {
	// minConfidence=0 is a valid threshold; an empty frame must still be
	// rejected, never kept as an interpolation anchor with no keypoints
	cfg := testConfig()
	cfg.MinConfidence = 0

	frames := staticFrames(4, 500, 500, 0.9)
	frames[1].Keypoints = nil

	verdicts, err := Analyze(frames, testSize, cfg)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdicts[1].Category != model.CategoryLowConfidence {
		t.Errorf("category %s, want lowConfidence", verdicts[1].Category)
	}
}

func TestAnalyzeOffScreen(t *testing.T) {
	frames := staticFrames(4, 500, 500, 0.9)
	// near the left edge with collapsed confidence: subject leaving frame
	frames[2].Keypoints = []model.Keypoint{{X: 10, Y: 500, Confidence: 0.4}}

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdicts[2].Category != model.CategoryOffScreen {
		t.Errorf("category %s, want offScreen", verdicts[2].Category)
	}
}

func TestAnalyzeBoundaryWithHighConfidenceStaysGood(t *testing.T) {
	frames := staticFrames(4, 500, 500, 0.9)
	frames[2].Keypoints = []model.Keypoint{{X: 10, Y: 500, Confidence: 0.9}}

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdicts[2].Category == model.CategoryOffScreen {
		t.Error("confident boundary frame should not be offScreen")
	}
}

func TestAnalyzeOutlierSpike(t *testing.T) {
	frames := staticFrames(10, 100, 100, 0.9)
	frames[5].Keypoints = []model.Keypoint{{X: 900, Y: 900, Confidence: 0.9}}

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if verdicts[5].Category != model.CategoryOutlier {
		t.Errorf("spike frame: category %s, want outlier", verdicts[5].Category)
	}
	if verdicts[5].DeviationFromTrend == nil {
		t.Fatal("spike frame should have a deviation")
	}
	if *verdicts[5].DeviationFromTrend <= 0.25 {
		t.Errorf("deviation %v, want > threshold", *verdicts[5].DeviationFromTrend)
	}
	// the spike's neighbors see a diluted centroid and stay good
	for _, i := range []int{3, 4, 6, 7} {
		if verdicts[i].Category != model.CategoryGood {
			t.Errorf("frame %d: category %s, want good", i, verdicts[i].Category)
		}
	}
	// frames without a full window on both sides carry no deviation
	if verdicts[0].DeviationFromTrend != nil || verdicts[9].DeviationFromTrend != nil {
		t.Error("edge frames should have nil deviation")
	}
}

func TestAnalyzeShortSequenceSkipsOutlierDetection(t *testing.T) {
	frames := staticFrames(4, 100, 100, 0.9)
	frames[2].Keypoints = []model.Keypoint{{X: 900, Y: 900, Confidence: 0.9}}

	verdicts, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for i, v := range verdicts {
		if v.Category != model.CategoryGood {
			t.Errorf("frame %d: category %s, want good (too few frames for trend)", i, v.Category)
		}
		if v.DeviationFromTrend != nil {
			t.Errorf("frame %d: deviation should be nil", i)
		}
	}
}

func TestAnalyzeRejectsGappedInput(t *testing.T) {
	frames := staticFrames(5, 500, 500, 0.9)
	frames[3].Index = 7

	_, err := Analyze(frames, testSize, testConfig())
	if err == nil {
		t.Fatal("expected error for gapped input")
	}
	var ierr *model.InputError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected *InputError, got %T", err)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	frames := staticFrames(12, 300, 300, 0.8)
	frames[4].Keypoints[0].Confidence = 0.2
	frames[7].Keypoints = []model.Keypoint{{X: 950, Y: 950, Confidence: 0.8}}

	first, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := Analyze(frames, testSize, testConfig())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("verdicts differ between runs")
	}
}
