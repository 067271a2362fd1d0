package usecase

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mlib_go/pkg/mutils/mlog"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/utils"
)

const defaultFPS = 30.0

// Unpack 検出器のjsonデータを読み込んで、構造体に展開する
func Unpack(dirPath string) ([]*model.Detection, error) {
	mlog.I("Start: Unpack =============================")

	jsonPaths, err := getJSONFilePaths(dirPath)
	if err != nil {
		mlog.E("Failed to get json file paths: %v", err)
		return nil, err
	}

	allDetections := make([]*model.Detection, len(jsonPaths))

	bar := utils.NewProgressBar(len(jsonPaths))

	for i, path := range jsonPaths {
		bar.Increment()
		mlog.I("[%d/%d] Unpack %s ...", i+1, len(jsonPaths), filepath.Base(path))

		file, err := os.Open(path)
		if err != nil {
			mlog.E("[%s] Failed to open file: %v", path, err)
			return nil, err
		}
		defer file.Close()

		detection := new(model.Detection)
		detection.Path = path
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(detection); err != nil {
			mlog.E("[%s] Failed to decode json: %v", path, err)
			return nil, err
		}

		if detection.Width <= 0 || detection.Height <= 0 {
			return nil, fmt.Errorf("[%s] missing image dimensions", path)
		}
		fillTimestamps(detection)

		allDetections[i] = detection
	}

	bar.Finish()

	mlog.I("End: Unpack =============================")

	return allDetections, nil
}

// fillTimestamps fills zero timestamps from the frame rate. The estimator
// writes frameNumber/fps itself, but older dumps carry only frame numbers.
func fillTimestamps(detection *model.Detection) {
	fps := detection.FPS
	if fps <= 0 {
		fps = defaultFPS
		detection.FPS = fps
	}
	for i := range detection.Frames {
		if detection.Frames[i].Timestamp == 0 && detection.Frames[i].Index > 0 {
			detection.Frames[i].Timestamp = float64(detection.Frames[i].Index) / fps
		}
	}
}

func getJSONFilePaths(dirPath string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path != dirPath && info.IsDir() {
			// 直下だけ参照
			return filepath.SkipDir
		}
		if !info.IsDir() && (strings.HasSuffix(info.Name(), "_pose.json")) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
