package model

// Position is a single 3D coordinate as emitted by the pose estimator.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Keypoint is a 2D joint detection in image space with a confidence in [0,1].
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ImageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RawFrame is one frame of detector output. Immutable after Unpack.
type RawFrame struct {
	Index        int          `json:"frameNumber"`
	Timestamp    float64      `json:"timestamp"`
	Keypoints    []Keypoint   `json:"keypoints"`
	MeshVertices []Position   `json:"meshVertices,omitempty"`
	MeshFaces    [][3]int     `json:"meshFaces,omitempty"`
	BoundingBox  *BoundingBox `json:"boundingBox,omitempty"`
}

// Detection is the full raw frame sequence for one tracked subject,
// as decoded from a *_pose.json file.
type Detection struct {
	Path    string     `json:"-"`
	VideoID string     `json:"videoId,omitempty"`
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	FPS     float64    `json:"fps,omitempty"`
	Frames  []RawFrame `json:"frames"`
}

func (d *Detection) ImageSize() ImageSize {
	return ImageSize{Width: d.Width, Height: d.Height}
}

// ValidateSequence checks that frame indexes are 0-based, contiguous and
// strictly increasing. Detector output that violates this is surfaced to
// the caller, never silently repaired.
func ValidateSequence(frames []RawFrame) error {
	for i, f := range frames {
		if f.Index != i {
			return &InputError{Index: f.Index, Reason: "frame indexes must be 0-based and contiguous"}
		}
	}
	return nil
}
