package pose

import "math"

type Check string

const (
	CheckKneeFlexion        Check = "knee_flexion"
	CheckHipHeelDistance    Check = "hip_heel_distance"
	CheckTorsoThighContact  Check = "torso_thigh_contact"
	CheckHeadPosition       Check = "head_position"
	CheckSpineCurvature     Check = "spine_curvature"
	CheckShoulderRelaxation Check = "shoulder_relaxation"
	CheckArmRelaxation      Check = "arm_relaxation"
)

var evaluationOrder = []Check{
	CheckKneeFlexion,
	CheckHipHeelDistance,
	CheckTorsoThighContact,
	CheckHeadPosition,
	CheckSpineCurvature,
	CheckShoulderRelaxation,
	CheckArmRelaxation,
}

func AllChecks() []Check {
	out := make([]Check, len(evaluationOrder))
	copy(out, evaluationOrder)
	return out
}

type OutcomeKind string

const (
	OutcomeNoPerson         OutcomeKind = "no_person"
	OutcomeMissingLandmarks OutcomeKind = "missing_landmarks"
	OutcomeCorrections      OutcomeKind = "corrections"
	OutcomeGoodPose         OutcomeKind = "good_pose"
)

const (
	MsgNoPerson         = "No person detected. Please step into the camera view."
	MsgMissingLandmarks = "Cannot detect all required body parts. Please adjust your position or camera."
	MsgKneeFlexion      = "Sit deeper on your heels."
	MsgHipHeelDistance  = "Lower your hips toward your heels."
	MsgTorsoThigh       = "Rest your chest on your thighs."
	MsgHeadPosition     = "Lower your forehead toward the mat."
	MsgSpineCurvature   = "Round your back and relax your spine."
	MsgShoulderRelax    = "Keep your shoulders level and relaxed."
	MsgArmRelax         = "Relax your arms alongside your body."
	MsgBreathing        = "Breathe deeply and hold the pose."
)

func EncouragementFor(streak int) string {
	switch {
	case streak >= 6:
		return "Excellent! Keep going."
	case streak >= 3:
		return "You're doing great!"
	default:
		return "Good pose!"
	}
}

type Band struct {
	Min float64
	Max float64
}

type Tolerances struct {
	KneeFlexion          Band
	KneeFlexionTol       float64
	HipHeelDistance      float64
	HipHeelDistanceTol   float64
	TorsoThighContact    float64
	TorsoThighContactTol float64
	SpineCurvature       Band
	SpineCurvatureTol    float64
	ShoulderLevel        float64
	ShoulderLevelTol     float64
	ArmExtension         float64
	ArmExtensionTol      float64
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		KneeFlexion:          Band{Min: 10, Max: 35},
		KneeFlexionTol:       15,
		HipHeelDistance:      0.12,
		HipHeelDistanceTol:   0.06,
		TorsoThighContact:    0.15,
		TorsoThighContactTol: 0.08,
		SpineCurvature:       Band{Min: 40, Max: 120},
		SpineCurvatureTol:    25,
		ShoulderLevel:        0.06,
		ShoulderLevelTol:     0.04,
		ArmExtension:         0.2,
		ArmExtensionTol:      0.08,
	}
}

type CheckResult struct {
	Check    Check
	Passed   bool
	Feedback string
}

type Outcome struct {
	Kind       OutcomeKind
	Feedback   []string
	Status     map[Check]bool
	Results    []CheckResult
	GoodStreak int
}

type Config struct {
	Tolerances    Tolerances
	EnabledChecks []Check
}

type Evaluator struct {
	tol     Tolerances
	enabled map[Check]bool
}

func NewEvaluator(cfg Config) *Evaluator {
	tol := cfg.Tolerances
	if tol == (Tolerances{}) {
		tol = DefaultTolerances()
	}
	checks := cfg.EnabledChecks
	if len(checks) == 0 {
		checks = AllChecks()
	}
	enabled := make(map[Check]bool, len(checks))
	for _, c := range checks {
		enabled[c] = true
	}
	return &Evaluator{tol: tol, enabled: enabled}
}

func (e *Evaluator) EnabledChecks() []Check {
	out := make([]Check, 0, len(evaluationOrder))
	for _, c := range evaluationOrder {
		if e.enabled[c] {
			out = append(out, c)
		}
	}
	return out
}

// Evaluate is pure: the good-pose streak is passed in by the caller and the
// incremented value comes back in the outcome, so identical inputs always
// produce identical outputs.
func (e *Evaluator) Evaluate(set *LandmarkSet, goodStreak int) Outcome {
	if set == nil {
		return Outcome{Kind: OutcomeNoPerson, Feedback: []string{MsgNoPerson}}
	}
	if !set.HasAll(Required) {
		return Outcome{Kind: OutcomeMissingLandmarks, Feedback: []string{MsgMissingLandmarks}}
	}

	status := make(map[Check]bool, len(evaluationOrder))
	var results []CheckResult
	var feedback []string
	collect := func(r CheckResult) {
		status[r.Check] = r.Passed
		results = append(results, r)
		if r.Feedback != "" {
			feedback = append(feedback, r.Feedback)
		}
	}

	if e.enabled[CheckKneeFlexion] {
		collect(e.kneeFlexion(set))
	}
	if e.enabled[CheckHipHeelDistance] {
		collect(e.hipHeelDistance(set))
	}
	if e.enabled[CheckTorsoThighContact] {
		collect(e.torsoThighContact(set))
	}
	if e.enabled[CheckHeadPosition] {
		collect(e.headPosition(set))
	}
	if e.enabled[CheckSpineCurvature] {
		collect(e.spineCurvature(set))
	}
	if e.enabled[CheckShoulderRelaxation] {
		collect(e.shoulderRelaxation(set))
	}
	if e.enabled[CheckArmRelaxation] && set.Present(LeftWrist) && set.Present(RightWrist) {
		collect(e.armRelaxation(set))
	}

	if len(feedback) > 0 {
		return Outcome{Kind: OutcomeCorrections, Feedback: feedback, Status: status, Results: results}
	}

	streak := goodStreak + 1
	return Outcome{
		Kind:       OutcomeGoodPose,
		Feedback:   []string{EncouragementFor(streak), MsgBreathing},
		Status:     status,
		Results:    results,
		GoodStreak: streak,
	}
}

// Status uses the ideal band while feedback only triggers outside the
// tolerance-widened band, so a check can fail its status without producing a
// message. The split is intentional; do not unify the two thresholds.
func bandResult(check Check, value float64, band Band, tol float64, msg string) CheckResult {
	r := CheckResult{Check: check, Passed: value >= band.Min && value <= band.Max}
	if value < band.Min-tol || value > band.Max+tol {
		r.Feedback = msg
	}
	return r
}

func scalarResult(check Check, value, ideal, tol float64, msg string) CheckResult {
	r := CheckResult{Check: check, Passed: value <= ideal}
	if value > ideal+tol {
		r.Feedback = msg
	}
	return r
}

func (e *Evaluator) kneeFlexion(s *LandmarkSet) CheckResult {
	left := Angle(s.point(LeftHip), s.point(LeftKnee), s.point(LeftAnkle))
	right := Angle(s.point(RightHip), s.point(RightKnee), s.point(RightAnkle))
	avg := (left + right) / 2
	return bandResult(CheckKneeFlexion, avg, e.tol.KneeFlexion, e.tol.KneeFlexionTol, MsgKneeFlexion)
}

func (e *Evaluator) hipHeelDistance(s *LandmarkSet) CheckResult {
	hips := Midpoint(s.point(LeftHip), s.point(RightHip))
	ref := Midpoint(s.point(LeftAnkle), s.point(RightAnkle))
	if s.Present(LeftHeel) && s.Present(RightHeel) {
		ref = Midpoint(s.point(LeftHeel), s.point(RightHeel))
	}
	d := Distance(hips, ref)
	return scalarResult(CheckHipHeelDistance, d, e.tol.HipHeelDistance, e.tol.HipHeelDistanceTol, MsgHipHeelDistance)
}

func (e *Evaluator) torsoThighContact(s *LandmarkSet) CheckResult {
	shoulders := Midpoint(s.point(LeftShoulder), s.point(RightShoulder))
	knees := Midpoint(s.point(LeftKnee), s.point(RightKnee))
	d := Distance(shoulders, knees)
	return scalarResult(CheckTorsoThighContact, d, e.tol.TorsoThighContact, e.tol.TorsoThighContactTol, MsgTorsoThigh)
}

func (e *Evaluator) headPosition(s *LandmarkSet) CheckResult {
	hips := Midpoint(s.point(LeftHip), s.point(RightHip))
	r := CheckResult{Check: CheckHeadPosition, Passed: s.point(Nose).Y > hips.Y}
	if !r.Passed {
		r.Feedback = MsgHeadPosition
	}
	return r
}

func (e *Evaluator) spineCurvature(s *LandmarkSet) CheckResult {
	shoulders := Midpoint(s.point(LeftShoulder), s.point(RightShoulder))
	hips := Midpoint(s.point(LeftHip), s.point(RightHip))
	a := Angle(s.point(Nose), shoulders, hips)
	return bandResult(CheckSpineCurvature, a, e.tol.SpineCurvature, e.tol.SpineCurvatureTol, MsgSpineCurvature)
}

func (e *Evaluator) shoulderRelaxation(s *LandmarkSet) CheckResult {
	diff := math.Abs(s.point(LeftShoulder).Y - s.point(RightShoulder).Y)
	return scalarResult(CheckShoulderRelaxation, diff, e.tol.ShoulderLevel, e.tol.ShoulderLevelTol, MsgShoulderRelax)
}

func (e *Evaluator) armRelaxation(s *LandmarkSet) CheckResult {
	left := Distance(s.point(LeftShoulder), s.point(LeftWrist))
	right := Distance(s.point(RightShoulder), s.point(RightWrist))
	avg := (left + right) / 2
	return scalarResult(CheckArmRelaxation, avg, e.tol.ArmExtension, e.tol.ArmExtensionTol, MsgArmRelax)
}

var landmarkChecks = map[Index][]Check{
	Nose:          {CheckHeadPosition, CheckSpineCurvature},
	LeftShoulder:  {CheckTorsoThighContact, CheckSpineCurvature, CheckShoulderRelaxation, CheckArmRelaxation},
	RightShoulder: {CheckTorsoThighContact, CheckSpineCurvature, CheckShoulderRelaxation, CheckArmRelaxation},
	LeftWrist:     {CheckArmRelaxation},
	RightWrist:    {CheckArmRelaxation},
	LeftHip:       {CheckKneeFlexion, CheckHipHeelDistance, CheckHeadPosition, CheckSpineCurvature},
	RightHip:      {CheckKneeFlexion, CheckHipHeelDistance, CheckHeadPosition, CheckSpineCurvature},
	LeftKnee:      {CheckKneeFlexion, CheckTorsoThighContact},
	RightKnee:     {CheckKneeFlexion, CheckTorsoThighContact},
	LeftAnkle:     {CheckKneeFlexion, CheckHipHeelDistance},
	RightAnkle:    {CheckKneeFlexion, CheckHipHeelDistance},
	LeftHeel:      {CheckHipHeelDistance},
	RightHeel:     {CheckHipHeelDistance},
}

// LandmarkChecks maps each landmark index to the checks that read it. Static,
// shared by callers; treat as read only.
func LandmarkChecks() map[Index][]Check {
	return landmarkChecks
}
