package pose

type Index int

const (
	Nose Index = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

const NumLandmarks = 33

var indexNames = [NumLandmarks]string{
	"nose", "left_eye_inner", "left_eye", "left_eye_outer", "right_eye_inner",
	"right_eye", "right_eye_outer", "left_ear", "right_ear", "mouth_left",
	"mouth_right", "left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_pinky", "right_pinky", "left_index",
	"right_index", "left_thumb", "right_thumb", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle", "left_heel",
	"right_heel", "left_foot_index", "right_foot_index",
}

func (i Index) String() string {
	if i < 0 || i >= NumLandmarks {
		return "unknown"
	}
	return indexNames[i]
}

func (i Index) Valid() bool {
	return i >= 0 && i < NumLandmarks
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Landmark struct {
	Point
	Visibility float64 `json:"visibility"`
}

var Required = []Index{
	Nose,
	LeftShoulder, RightShoulder,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

type LandmarkSet struct {
	landmarks [NumLandmarks]Landmark
	present   [NumLandmarks]bool
}

func NewLandmarkSet() *LandmarkSet {
	return &LandmarkSet{}
}

func (s *LandmarkSet) Put(i Index, lm Landmark) {
	if !i.Valid() {
		return
	}
	s.landmarks[i] = lm
	s.present[i] = true
}

func (s *LandmarkSet) At(i Index) (Landmark, bool) {
	if !i.Valid() || !s.present[i] {
		return Landmark{}, false
	}
	return s.landmarks[i], true
}

func (s *LandmarkSet) Present(i Index) bool {
	return i.Valid() && s.present[i]
}

func (s *LandmarkSet) HasAll(indices []Index) bool {
	for _, i := range indices {
		if !s.Present(i) {
			return false
		}
	}
	return true
}

func (s *LandmarkSet) point(i Index) Point {
	return s.landmarks[i].Point
}
