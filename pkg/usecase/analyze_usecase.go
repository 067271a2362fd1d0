package usecase

import (
	"math"

	"github.com/miu200521358/mlib_go/pkg/mmath"
	"gonum.org/v1/gonum/stat"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

// Analyze scores every raw frame independently and returns one verdict per
// frame, in order. Pure: no side effects, deterministic for a fixed input.
//
// Classification order per frame:
//  1. mean keypoint confidence below MinConfidence → lowConfidence
//  2. any keypoint in the boundary zone and confidence below
//     OffScreenConfidence → offScreen
//  3. deviation from the trend-window expectation above
//     OutlierDeviationThreshold → outlier
//  4. otherwise good
//
// Outlier detection is skipped entirely when the sequence is shorter than
// TrendWindowSize, and per frame when it lacks TrendWindowSize/2 valid
// neighbors on either side (valid = not lowConfidence/offScreen).
func Analyze(frames []model.RawFrame, size model.ImageSize, cfg *model.Config) ([]model.QualityVerdict, error) {
	if err := model.ValidateSequence(frames); err != nil {
		return nil, err
	}

	verdicts := make([]model.QualityVerdict, len(frames))

	for i, f := range frames {
		avg := averageConfidence(f.Keypoints)
		v := model.QualityVerdict{
			Index:             f.Index,
			Category:          model.CategoryGood,
			AverageConfidence: avg,
		}
		switch {
		case len(f.Keypoints) == 0 || avg < cfg.MinConfidence:
			// keypointが無いフレームは閾値に関わらずここで落ちる
			v.Category = model.CategoryLowConfidence
		case nearBoundary(f.Keypoints, size, cfg.BoundaryThreshold) && avg < cfg.OffScreenConfidence:
			v.Category = model.CategoryOffScreen
		}
		verdicts[i] = v
	}

	if len(frames) >= cfg.TrendWindowSize {
		half := cfg.TrendWindowSize / 2
		diag := math.Hypot(size.Width, size.Height)

		for i := range frames {
			if verdicts[i].Category != model.CategoryGood {
				continue
			}
			before := validNeighbors(verdicts, i, -1, half)
			after := validNeighbors(verdicts, i, +1, half)
			if len(before) < half || len(after) < half {
				continue
			}
			dev := deviationFromTrend(frames, i, append(before, after...), diag)
			verdicts[i].DeviationFromTrend = &dev
			if dev > cfg.OutlierDeviationThreshold {
				verdicts[i].Category = model.CategoryOutlier
			}
		}
	}

	return verdicts, nil
}

func averageConfidence(kps []model.Keypoint) float64 {
	if len(kps) == 0 {
		return 0
	}
	confs := make([]float64, len(kps))
	for i, kp := range kps {
		confs[i] = kp.Confidence
	}
	return stat.Mean(confs, nil)
}

// nearBoundary reports whether any keypoint lies within threshold of an
// image edge, expressed as a fraction of that edge.
func nearBoundary(kps []model.Keypoint, size model.ImageSize, threshold float64) bool {
	mx := size.Width * threshold
	my := size.Height * threshold
	for _, kp := range kps {
		if kp.X <= mx || kp.X >= size.Width-mx || kp.Y <= my || kp.Y >= size.Height-my {
			return true
		}
	}
	return false
}

// validNeighbors collects in-window neighbor indexes on one side of i,
// excluding frames already flagged lowConfidence/offScreen.
func validNeighbors(verdicts []model.QualityVerdict, i, dir, half int) []int {
	var out []int
	for step := 1; step <= half; step++ {
		j := i + dir*step
		if j < 0 || j >= len(verdicts) {
			break
		}
		c := verdicts[j].Category
		if c == model.CategoryLowConfidence || c == model.CategoryOffScreen {
			continue
		}
		out = append(out, j)
	}
	return out
}

// deviationFromTrend compares each keypoint of frame i against the centroid
// of the same keypoint across the neighbor frames, normalized by the image
// diagonal, and returns the mean over keypoints.
func deviationFromTrend(frames []model.RawFrame, i int, neighbors []int, diag float64) float64 {
	kps := frames[i].Keypoints
	if len(kps) == 0 || diag == 0 {
		return 0
	}

	dists := make([]float64, 0, len(kps))
	for k := range kps {
		var sx, sy float64
		n := 0
		for _, j := range neighbors {
			if k >= len(frames[j].Keypoints) {
				continue
			}
			sx += frames[j].Keypoints[k].X
			sy += frames[j].Keypoints[k].Y
			n++
		}
		if n == 0 {
			continue
		}
		expected := &mmath.MVec2{sx / float64(n), sy / float64(n)}
		actual := &mmath.MVec2{kps[k].X, kps[k].Y}
		dists = append(dists, actual.Subed(expected).Length()/diag)
	}
	if len(dists) == 0 {
		return 0
	}
	return stat.Mean(dists, nil)
}
