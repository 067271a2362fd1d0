package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenEnablesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "frames.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func sampleSequence() *model.ProcessedSequence {
	sources := [2]int{0, 2}
	frames := []model.ProcessedFrame{
		{
			ProcessedIndex: 0,
			OriginalIndex:  0,
			Source:         model.SourceDetected,
			Timestamp:      0,
			Keypoints:      []model.Keypoint{{X: 100, Y: 200, Confidence: 0.9}},
			MeshVertices:   []model.Position{{X: 1, Y: 2, Z: 3}},
			MeshFaces:      [][3]int{{0, 0, 0}},
			BoundingBox:    &model.BoundingBox{X: 10, Y: 20, Width: 30, Height: 40},
		},
		{
			ProcessedIndex:      1,
			OriginalIndex:       1,
			Source:              model.SourceInterpolated,
			Timestamp:           1.0 / 30,
			Keypoints:           []model.Keypoint{{X: 110, Y: 210, Confidence: 0.85}},
			SourceFrames:        &sources,
			InterpolationFactor: 0.5,
		},
		{
			ProcessedIndex: 2,
			OriginalIndex:  2,
			Source:         model.SourceDetected,
			Timestamp:      2.0 / 30,
			Keypoints:      []model.Keypoint{{X: 120, Y: 220, Confidence: 0.95}},
		},
	}
	stats := model.QualityStatistics{
		OriginalCount:     4,
		ProcessedCount:    3,
		DetectedCount:     2,
		RemovedCount:      1,
		InterpolatedCount: 1,
	}
	return &model.ProcessedSequence{
		VideoID: "vid-1",
		Frames:  frames,
		Stats:   stats,
		Mapping: model.NewFrameIndexMapping(stats.OriginalCount, frames),
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := openTestStore(t)
	want := sampleSequence()

	if err := s.SaveSequence("vid-1", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadSequence("vid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("load returned nil for stored video")
	}
	if got.Stats != want.Stats {
		t.Errorf("stats = %+v, want %+v", got.Stats, want.Stats)
	}
	if !reflect.DeepEqual(got.Frames, want.Frames) {
		t.Errorf("frames = %+v, want %+v", got.Frames, want.Frames)
	}

	// mapping rebuilt from the stored list behaves like the original
	p, ok := got.Mapping.OriginalToProcessed(3)
	if !ok {
		t.Fatal("rebuilt mapping not total")
	}
	orig, _ := got.Mapping.ProcessedToOriginal(p)
	if orig != 2 {
		t.Errorf("removed original 3 served by original %d, want 2", orig)
	}
}

func TestSaveReplacesPriorSequence(t *testing.T) {
	s := openTestStore(t)
	first := sampleSequence()
	if err := s.SaveSequence("vid-1", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := sampleSequence()
	second.Frames = second.Frames[:1]
	second.Stats.ProcessedCount = 1
	second.Stats.DetectedCount = 1
	second.Stats.RemovedCount = 3
	second.Stats.InterpolatedCount = 0

	if err := s.SaveSequence("vid-1", second); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	got, err := s.LoadSequence("vid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Frames) != 1 {
		t.Fatalf("got %d frames after replacement, want 1 (no old/new mix)", len(got.Frames))
	}
	if got.Stats.RemovedCount != 3 {
		t.Errorf("RemovedCount = %d, want 3", got.Stats.RemovedCount)
	}
}

func TestLoadUnknownVideo(t *testing.T) {
	s := openTestStore(t)

	got, err := s.LoadSequence("nope")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for unknown id", got)
	}
}

func TestVideoIDs(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSequence("vid-a", sampleSequence()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveSequence("vid-b", sampleSequence()); err != nil {
		t.Fatalf("save: %v", err)
	}

	ids, err := s.VideoIDs()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
}
