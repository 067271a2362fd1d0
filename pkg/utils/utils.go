package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/miu200521358/mlib_go/pkg/mutils/mlog"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

func NewProgressBar(total int) *pb.ProgressBar {
	// プログレスバーのカスタムテンプレートを設定
	template := `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

	bar := pb.ProgressBarTemplate(template).Start(total)

	return bar
}

// WriteSequenceJSON writes each processed sequence next to its source json,
// replacing the `_pose.json` suffix.
func WriteSequenceJSON(detections []*model.Detection, sequences []*model.ProcessedSequence, fileSuffix, logPrefix string) error {
	errCh := make(chan error, len(sequences))
	var wg sync.WaitGroup

	for i, detection := range detections {
		wg.Add(1)
		go func(i int, detection *model.Detection, sequence *model.ProcessedSequence) {
			defer mlog.I("Output %s [%d/%d] ...", logPrefix, i+1, len(sequences))
			defer wg.Done()

			outPath := replaceSuffix(detection.Path, fmt.Sprintf("_%s.json", fileSuffix))
			data, err := json.MarshalIndent(sequence, "", "  ")
			if err != nil {
				mlog.E("Failed to marshal %s json: %v", logPrefix, err)
				errCh <- err
				return
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				mlog.E("Failed to write %s json: %v", logPrefix, err)
				errCh <- err
			}
		}(i, detection, sequences[i])
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}

	return nil
}

func replaceSuffix(path, suffix string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if len(base) > len("_pose.json") {
		base = base[:len(base)-len("_pose.json")]
	}
	return filepath.Join(dir, base+suffix)
}
