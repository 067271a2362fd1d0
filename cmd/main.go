package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/miu200521358/mlib_go/pkg/mutils/mlog"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/store"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/usecase"
	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/utils"
)

var logLevel string
var configPath string
var dirPath string
var dbPath string

func init() {
	flag.StringVar(&logLevel, "logLevel", "INFO", "set log level")
	flag.StringVar(&configPath, "configPath", "", "set quality config yaml path")
	flag.StringVar(&dirPath, "dirPath", "", "set directory path")
	flag.StringVar(&dbPath, "dbPath", "", "set sqlite database path")
	flag.Parse()

	switch logLevel {
	case "INFO":
		mlog.SetLevel(mlog.INFO)
	default:
		mlog.SetLevel(mlog.DEBUG)
	}
}

func main() {
	if dirPath == "" {
		mlog.E("dirPath must be provided")
		os.Exit(1)
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		mlog.E("Invalid configuration: %v", err)
		os.Exit(1)
	}

	mlog.I("Unpack json ================")
	allDetections, err := usecase.Unpack(dirPath)
	if err != nil {
		mlog.E("Failed to unpack: %v", err)
		return
	}

	for _, detection := range allDetections {
		if detection.VideoID == "" {
			detection.VideoID = uuid.NewString()
		}
	}

	mlog.I("Filter Frames ================")
	allSequences, err := usecase.ProcessAll(allDetections, cfg)
	if err != nil {
		mlog.E("Failed to process: %v", err)
		return
	}

	if mlog.IsDebug() {
		utils.WriteSequenceJSON(allDetections, allSequences, "processed", "Processed")
	}

	if dbPath != "" {
		mlog.I("Save Sequences ================")
		db, err := store.Open(dbPath)
		if err != nil {
			mlog.E("Failed to open store: %v", err)
			return
		}
		defer db.Close()

		for i, seq := range allSequences {
			if err := db.SaveSequence(seq.VideoID, seq); err != nil {
				mlog.E("Failed to save sequence: %v", err)
				return
			}
			mlog.I("Saved [%d/%d] %s", i+1, len(allSequences), seq.VideoID)
		}
	}

	// complete ファイルを出力する
	{
		completePath := filepath.Join(dirPath, "complete")
		mlog.I("Output Complete File %s", completePath)
		f, err := os.Create(completePath)
		if err != nil {
			mlog.E("Failed to create complete file: %v", err)
			return
		}
		defer f.Close()
	}

	mlog.I("Done!")
}
