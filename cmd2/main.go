package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/miu200521358/mlib_go/pkg/mutils/mlog"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/store"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/usecase"
)

var logLevel string
var dbPath string
var videoID string
var frameNo int
var frameRange string

func init() {
	flag.StringVar(&logLevel, "logLevel", "INFO", "set log level")
	flag.StringVar(&dbPath, "dbPath", "", "set sqlite database path")
	flag.StringVar(&videoID, "videoId", "", "set video id (default: latest)")
	flag.IntVar(&frameNo, "frame", -1, "original frame number to fetch")
	flag.StringVar(&frameRange, "range", "", "original frame range to fetch, start:end")
	flag.Parse()

	switch logLevel {
	case "INFO":
		mlog.SetLevel(mlog.INFO)
	default:
		mlog.SetLevel(mlog.DEBUG)
	}
}

func main() {
	if dbPath == "" {
		mlog.E("dbPath must be provided")
		os.Exit(1)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		mlog.E("Failed to open store: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if videoID == "" {
		ids, err := db.VideoIDs()
		if err != nil {
			mlog.E("Failed to list videos: %v", err)
			return
		}
		if len(ids) == 0 {
			mlog.E("No stored videos")
			return
		}
		videoID = ids[0]
	}

	seq, err := db.LoadSequence(videoID)
	if err != nil {
		mlog.E("Failed to load sequence: %v", err)
		return
	}
	if seq == nil {
		mlog.E("Unknown video id: %s", videoID)
		return
	}

	mlog.I("Video %s: %d original -> %d processed (removed %d, interpolated %d)",
		videoID, seq.Stats.OriginalCount, seq.Stats.ProcessedCount,
		seq.Stats.RemovedCount, seq.Stats.InterpolatedCount)

	accessor := usecase.NewSyncedAccessor(seq.Stats.OriginalCount, seq.Frames)

	if frameNo >= 0 {
		frame := accessor.GetFrame(frameNo)
		if frame == nil {
			mlog.I("No usable pose data for frame %d", frameNo)
			return
		}
		printFrame(frameNo, frame)
	}

	if frameRange != "" {
		start, end, err := parseRange(frameRange)
		if err != nil {
			mlog.E("Invalid range: %v", err)
			os.Exit(1)
		}
		frames := accessor.GetFrameRange(start, end)
		mlog.I("Range [%d:%d] -> %d processed frames", start, end, len(frames))
		for _, frame := range frames {
			printFrame(frame.OriginalIndex, &frame)
		}
	}
}

func parseRange(s string) (int, int, error) {
	split := strings.Split(s, ":")
	if len(split) != 2 {
		return 0, 0, fmt.Errorf("expected start:end, got %q", s)
	}
	start, err := strconv.Atoi(split[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.Atoi(split[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func printFrame(original int, frame *model.ProcessedFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		mlog.E("Failed to marshal frame: %v", err)
		return
	}
	mlog.I("original %d -> processed %d: %s", original, frame.ProcessedIndex, string(data))
}
