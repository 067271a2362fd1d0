package usecase

import (
	"sync"

	"github.com/miu200521358/mlib_go/pkg/mutils/mlog"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/utils"
)

// Process runs the full engine over one detection: analyze → filter and
// interpolate → build the index mapping. The result is immutable and may be
// shared across concurrent readers.
func Process(detection *model.Detection, cfg *model.Config) (*model.ProcessedSequence, error) {
	verdicts, err := Analyze(detection.Frames, detection.ImageSize(), cfg)
	if err != nil {
		return nil, err
	}

	processed, stats, err := FilterInterpolate(detection.Frames, verdicts, cfg)
	if err != nil {
		return nil, err
	}

	mapping := model.NewFrameIndexMapping(len(detection.Frames), processed)

	return &model.ProcessedSequence{
		VideoID: detection.VideoID,
		Frames:  processed,
		Stats:   stats,
		Mapping: mapping,
	}, nil
}

// ProcessAll runs Process over every detection in parallel, one goroutine
// per tracked subject.
func ProcessAll(detections []*model.Detection, cfg *model.Config) ([]*model.ProcessedSequence, error) {
	mlog.I("Start: Process =============================")

	sequences := make([]*model.ProcessedSequence, len(detections))
	errs := make([]error, len(detections))

	bar := utils.NewProgressBar(len(detections))

	var wg sync.WaitGroup
	for i, detection := range detections {
		wg.Add(1)

		go func(i int, detection *model.Detection) {
			defer wg.Done()
			defer bar.Increment()

			sequences[i], errs[i] = Process(detection, cfg)
		}(i, detection)
	}

	wg.Wait()
	bar.Finish()

	for i, err := range errs {
		if err != nil {
			mlog.E("[%s] Failed to process: %v", detections[i].Path, err)
			return nil, err
		}
	}

	for i, seq := range sequences {
		mlog.I("[%d/%d] frames: %d -> %d (detected %d, interpolated %d, removed %d / %.1f%%)",
			i+1, len(sequences), seq.Stats.OriginalCount, seq.Stats.ProcessedCount,
			seq.Stats.DetectedCount, seq.Stats.InterpolatedCount,
			seq.Stats.RemovedCount, seq.Stats.RemovedPercent())
	}

	mlog.I("End: Process =============================")

	return sequences, nil
}
