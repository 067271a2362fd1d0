// Package store persists processed frame sequences keyed by video id.
// The processed frame list plus its statistics are enough to rebuild the
// index mapping deterministically, so the mapping itself is not stored.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/benstrumeyer/SnowboardingExplained-sub000/pkg/model"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and ensures the schema exists.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			originalCount INTEGER NOT NULL,
			processedCount INTEGER NOT NULL,
			detectedCount INTEGER NOT NULL,
			removedCount INTEGER NOT NULL,
			interpolatedCount INTEGER NOT NULL,
			createdAt REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS frames (
			videoId TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			processedIndex INTEGER NOT NULL,
			originalIndex INTEGER NOT NULL,
			source TEXT NOT NULL,
			timestamp REAL NOT NULL,
			sourceBefore INTEGER,
			sourceAfter INTEGER,
			interpolationFactor REAL NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			PRIMARY KEY (videoId, processedIndex)
		);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// framePayload carries the bulky per-frame geometry as one JSON column.
type framePayload struct {
	Keypoints    []model.Keypoint   `json:"keypoints"`
	MeshVertices []model.Position   `json:"meshVertices,omitempty"`
	MeshFaces    [][3]int           `json:"meshFaces,omitempty"`
	BoundingBox  *model.BoundingBox `json:"boundingBox,omitempty"`
}

// SaveSequence stores a processed sequence, fully replacing any prior
// sequence for the same video id in a single transaction. Readers never see
// a partial mix of old and new frames.
func (s *Store) SaveSequence(videoID string, seq *model.ProcessedSequence) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM frames WHERE videoId = ?`, videoID); err != nil {
		return fmt.Errorf("delete frames: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM videos WHERE id = ?`, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO videos (id, originalCount, processedCount, detectedCount, removedCount, interpolatedCount, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, videoID, seq.Stats.OriginalCount, seq.Stats.ProcessedCount, seq.Stats.DetectedCount,
		seq.Stats.RemovedCount, seq.Stats.InterpolatedCount, float64(time.Now().UnixNano())/1e9)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO frames (videoId, processedIndex, originalIndex, source, timestamp, sourceBefore, sourceAfter, interpolationFactor, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range seq.Frames {
		payload, err := json.Marshal(framePayload{
			Keypoints:    f.Keypoints,
			MeshVertices: f.MeshVertices,
			MeshFaces:    f.MeshFaces,
			BoundingBox:  f.BoundingBox,
		})
		if err != nil {
			return fmt.Errorf("marshal frame %d: %w", f.ProcessedIndex, err)
		}

		var before, after sql.NullInt64
		if f.SourceFrames != nil {
			before = sql.NullInt64{Int64: int64(f.SourceFrames[0]), Valid: true}
			after = sql.NullInt64{Int64: int64(f.SourceFrames[1]), Valid: true}
		}

		if _, err := stmt.Exec(videoID, f.ProcessedIndex, f.OriginalIndex, string(f.Source),
			f.Timestamp, before, after, f.InterpolationFactor, string(payload)); err != nil {
			return fmt.Errorf("insert frame %d: %w", f.ProcessedIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSequence loads the processed sequence for a video id and rebuilds its
// index mapping. Returns nil without error for an unknown id.
func (s *Store) LoadSequence(videoID string) (*model.ProcessedSequence, error) {
	row := s.db.QueryRow(`
		SELECT originalCount, processedCount, detectedCount, removedCount, interpolatedCount
		FROM videos
		WHERE id = ?
	`, videoID)

	var stats model.QualityStatistics
	if err := row.Scan(&stats.OriginalCount, &stats.ProcessedCount, &stats.DetectedCount,
		&stats.RemovedCount, &stats.InterpolatedCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan video: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT processedIndex, originalIndex, source, timestamp, sourceBefore, sourceAfter, interpolationFactor, payload
		FROM frames
		WHERE videoId = ?
		ORDER BY processedIndex ASC
	`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	frames := make([]model.ProcessedFrame, 0, stats.ProcessedCount)
	for rows.Next() {
		var f model.ProcessedFrame
		var source string
		var before, after sql.NullInt64
		var payload string

		if err := rows.Scan(&f.ProcessedIndex, &f.OriginalIndex, &source, &f.Timestamp,
			&before, &after, &f.InterpolationFactor, &payload); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}

		f.Source = model.FrameSource(source)
		if before.Valid && after.Valid {
			sources := [2]int{int(before.Int64), int(after.Int64)}
			f.SourceFrames = &sources
		}

		var p framePayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("unmarshal frame %d: %w", f.ProcessedIndex, err)
		}
		f.Keypoints = p.Keypoints
		f.MeshVertices = p.MeshVertices
		f.MeshFaces = p.MeshFaces
		f.BoundingBox = p.BoundingBox

		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate frames: %w", err)
	}

	return &model.ProcessedSequence{
		VideoID: videoID,
		Frames:  frames,
		Stats:   stats,
		Mapping: model.NewFrameIndexMapping(stats.OriginalCount, frames),
	}, nil
}

// VideoIDs lists stored video ids, newest first.
func (s *Store) VideoIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM videos ORDER BY createdAt DESC`)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan video id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
