package usecase

import (
	"github.com/miu200521358/mlib_go/pkg/mmath"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

// FilterInterpolate consumes the verdict stream and the raw frames, removes
// unrecoverable frames, interpolates recoverable gaps and returns the final
// ordered processed sequence with per-decision statistics.
//
// Policy:
//   - good frames are kept as detected
//   - lowConfidence/offScreen frames are removed, never interpolated
//   - outlier frames are interpolated when the whole run of consecutive
//     rejected frames containing them is at most MaxInterpolationGap wide
//     and has a kept anchor on both sides; otherwise removed
//   - runs touching the start or end of the sequence have no anchor on one
//     side and are removed whole
//
// An all-rejected input yields an empty processed slice and zeroed counts;
// that is a legitimate result, not an error.
func FilterInterpolate(frames []model.RawFrame, verdicts []model.QualityVerdict, cfg *model.Config) ([]model.ProcessedFrame, model.QualityStatistics, error) {
	stats := model.QualityStatistics{OriginalCount: len(frames)}

	if err := model.ValidateSequence(frames); err != nil {
		return nil, stats, err
	}
	if len(verdicts) != len(frames) {
		return nil, stats, &model.InputError{Index: 0, Reason: "verdict count does not match frame count"}
	}

	kept := make([]bool, len(frames))
	for i, v := range verdicts {
		if v.Index != frames[i].Index {
			return nil, stats, &model.InputError{Index: v.Index, Reason: "verdict order does not match frame order"}
		}
		kept[i] = v.Category == model.CategoryGood
	}

	processed := make([]model.ProcessedFrame, 0, len(frames))

	i := 0
	for i < len(frames) {
		if kept[i] {
			pf := detectedFrame(frames[i])
			pf.ProcessedIndex = len(processed)
			processed = append(processed, pf)
			stats.DetectedCount++
			i++
			continue
		}

		// maximal run of rejected frames [i, j)
		j := i
		for j < len(frames) && !kept[j] {
			j++
		}
		runLen := j - i

		// frames[i-1] and frames[j] are kept by construction when present
		bridge := i > 0 && j < len(frames) && runLen <= cfg.MaxInterpolationGap

		for p := i; p < j; p++ {
			if bridge && verdicts[p].Category == model.CategoryOutlier {
				pf := interpolateFrame(frames[i-1], frames[j], frames[p], p-i+1, runLen+1)
				pf.ProcessedIndex = len(processed)
				processed = append(processed, pf)
				stats.InterpolatedCount++
			} else {
				stats.RemovedCount++
			}
		}
		i = j
	}

	stats.ProcessedCount = len(processed)
	return processed, stats, nil
}

func detectedFrame(f model.RawFrame) model.ProcessedFrame {
	return model.ProcessedFrame{
		OriginalIndex: f.Index,
		Source:        model.SourceDetected,
		Timestamp:     f.Timestamp,
		Keypoints:     f.Keypoints,
		MeshVertices:  f.MeshVertices,
		MeshFaces:     f.MeshFaces,
		BoundingBox:   f.BoundingBox,
	}
}

// interpolateFrame synthesizes a frame at orig's position between the two
// anchors, p steps into a gap of gapLen.
func interpolateFrame(before, after, orig model.RawFrame, p, gapLen int) model.ProcessedFrame {
	t := float64(p) / float64(gapLen)

	var bbox *model.BoundingBox
	if before.BoundingBox != nil && after.BoundingBox != nil {
		bbox = &model.BoundingBox{
			X:      lerp(before.BoundingBox.X, after.BoundingBox.X, t),
			Y:      lerp(before.BoundingBox.Y, after.BoundingBox.Y, t),
			Width:  lerp(before.BoundingBox.Width, after.BoundingBox.Width, t),
			Height: lerp(before.BoundingBox.Height, after.BoundingBox.Height, t),
		}
	}

	sources := [2]int{before.Index, after.Index}
	return model.ProcessedFrame{
		OriginalIndex:       orig.Index,
		Source:              model.SourceInterpolated,
		Timestamp:           lerp(before.Timestamp, after.Timestamp, t),
		Keypoints:           lerpKeypoints(before.Keypoints, after.Keypoints, t),
		MeshVertices:        lerpVertices(before.MeshVertices, after.MeshVertices, t),
		MeshFaces:           before.MeshFaces,
		BoundingBox:         bbox,
		SourceFrames:        &sources,
		InterpolationFactor: t,
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpKeypoints(before, after []model.Keypoint, t float64) []model.Keypoint {
	if len(before) == 0 {
		return after
	}
	if len(after) == 0 {
		return before
	}
	n := max(len(before), len(after))
	out := make([]model.Keypoint, n)
	for i := range out {
		b := before[min(i, len(before)-1)]
		a := after[min(i, len(after)-1)]
		out[i] = model.Keypoint{
			X:          lerp(b.X, a.X, t),
			Y:          lerp(b.Y, a.Y, t),
			Confidence: lerp(b.Confidence, a.Confidence, t),
		}
	}
	return out
}

// lerpVertices interpolates anchor meshes. Mismatched vertex counts are
// handled by repeating the shorter mesh's last vertex, a known approximation
// that always produces some interpolated mesh.
func lerpVertices(before, after []model.Position, t float64) []model.Position {
	if len(before) == 0 {
		return after
	}
	if len(after) == 0 {
		return before
	}
	n := max(len(before), len(after))
	out := make([]model.Position, n)
	for i := range out {
		b := before[min(i, len(before)-1)]
		a := after[min(i, len(after)-1)]
		bv := &mmath.MVec3{b.X, b.Y, b.Z}
		av := &mmath.MVec3{a.X, a.Y, a.Z}
		v := bv.Added(av.Subed(bv).MuledScalar(t))
		out[i] = model.Position{X: v.GetX(), Y: v.GetY(), Z: v.GetZ()}
	}
	return out
}
