package feedback

import (
	"testing"
	"time"

	"github.com/eleven-am/align-backend/internal/pose"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func corrections(msgs ...string) pose.Outcome {
	return pose.Outcome{Kind: pose.OutcomeCorrections, Feedback: msgs}
}

func goodPose(streak int) pose.Outcome {
	return pose.Outcome{
		Kind:       pose.OutcomeGoodPose,
		Feedback:   []string{pose.EncouragementFor(streak), pose.MsgBreathing},
		GoodStreak: streak,
	}
}

func TestNewThrottle_DefaultPolicy(t *testing.T) {
	th := NewThrottle(Policy{})
	if th.policy.Cooldown != 5*time.Second {
		t.Errorf("expected default cooldown 5s, got %v", th.policy.Cooldown)
	}
	if !th.SoundEnabled() {
		t.Error("sound should default to enabled")
	}
}

func TestThrottle_SpeaksFirstMessageOnly(t *testing.T) {
	th := NewThrottle(Policy{})
	msg, ok := th.MaybeSpeak(corrections(pose.MsgKneeFlexion, pose.MsgHipHeelDistance), base)
	if !ok {
		t.Fatal("expected first correction to be spoken")
	}
	if msg != pose.MsgKneeFlexion {
		t.Errorf("expected first message %q, got %q", pose.MsgKneeFlexion, msg)
	}

	state := th.State()
	if state.LastSpokenMessage != pose.MsgKneeFlexion {
		t.Errorf("expected last spoken %q, got %q", pose.MsgKneeFlexion, state.LastSpokenMessage)
	}
	if !state.LastSpeechTime.Equal(base) {
		t.Errorf("expected speech time %v, got %v", base, state.LastSpeechTime)
	}
}

func TestThrottle_CooldownBlocksWithinWindow(t *testing.T) {
	th := NewThrottle(Policy{})
	if _, ok := th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base); !ok {
		t.Fatal("expected initial speech")
	}

	if _, ok := th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base.Add(3*time.Second)); ok {
		t.Error("unchanged feedback within cooldown should not speak")
	}
	if _, ok := th.MaybeSpeak(corrections(pose.MsgSpineCurvature), base.Add(3*time.Second)); ok {
		t.Error("changed feedback within cooldown should not speak either")
	}
}

func TestThrottle_DedupeBlocksRepeatAfterCooldown(t *testing.T) {
	th := NewThrottle(Policy{})
	th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base)

	if _, ok := th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base.Add(10*time.Second)); ok {
		t.Error("identical text should stay deduplicated past the cooldown")
	}

	msg, ok := th.MaybeSpeak(corrections(pose.MsgSpineCurvature), base.Add(11*time.Second))
	if !ok {
		t.Fatal("different text past the cooldown should speak")
	}
	if msg != pose.MsgSpineCurvature {
		t.Errorf("expected %q, got %q", pose.MsgSpineCurvature, msg)
	}
}

func TestThrottle_GoodPoseJoinsBothLines(t *testing.T) {
	th := NewThrottle(Policy{})
	msg, ok := th.MaybeSpeak(goodPose(1), base)
	if !ok {
		t.Fatal("expected good-pose utterance")
	}
	want := "Good pose! " + pose.MsgBreathing
	if msg != want {
		t.Errorf("expected %q, got %q", want, msg)
	}
	if th.GoodStreak() != 1 {
		t.Errorf("expected streak 1, got %d", th.GoodStreak())
	}
}

func TestThrottle_NoPersonResetsState(t *testing.T) {
	th := NewThrottle(Policy{})
	th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base)

	msg, ok := th.MaybeSpeak(pose.Outcome{Kind: pose.OutcomeNoPerson, Feedback: []string{pose.MsgNoPerson}}, base.Add(time.Second))
	if ok {
		t.Errorf("no-person frame should not speak, got %q", msg)
	}

	state := th.State()
	if state.LastSpokenMessage != "" {
		t.Errorf("expected cleared message, got %q", state.LastSpokenMessage)
	}
	if !state.LastSpeechTime.IsZero() {
		t.Errorf("expected zero speech time, got %v", state.LastSpeechTime)
	}
	if state.ConsecutiveGoodFrames != 0 {
		t.Errorf("expected streak 0, got %d", state.ConsecutiveGoodFrames)
	}
}

func TestThrottle_ResetReallowsSpeechWithinCooldown(t *testing.T) {
	th := NewThrottle(Policy{})
	th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base)

	th.MaybeSpeak(pose.Outcome{Kind: pose.OutcomeMissingLandmarks, Feedback: []string{pose.MsgMissingLandmarks}}, base.Add(time.Second))

	// same text, two seconds after the original utterance: the reset cleared
	// both gates so it goes straight back out
	msg, ok := th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base.Add(2*time.Second))
	if !ok {
		t.Fatal("expected speech immediately after reset")
	}
	if msg != pose.MsgKneeFlexion {
		t.Errorf("expected %q, got %q", pose.MsgKneeFlexion, msg)
	}
}

func TestThrottle_SoundDisabled(t *testing.T) {
	th := NewThrottle(Policy{})
	th.SetSoundEnabled(false)

	if _, ok := th.MaybeSpeak(corrections(pose.MsgKneeFlexion), base); ok {
		t.Error("disabled sound should never speak")
	}
	if th.State().LastSpokenMessage != "" {
		t.Error("blocked speech should not update the spoken message")
	}

	// state bookkeeping continues while muted
	th.MaybeSpeak(goodPose(3), base.Add(time.Second))
	if th.GoodStreak() != 3 {
		t.Errorf("expected streak 3 while muted, got %d", th.GoodStreak())
	}

	th.SetSoundEnabled(true)
	if _, ok := th.MaybeSpeak(goodPose(4), base.Add(2*time.Second)); !ok {
		t.Error("expected speech after re-enabling sound")
	}
}

func TestThrottle_StreakFollowsOutcomes(t *testing.T) {
	th := NewThrottle(Policy{})

	th.MaybeSpeak(goodPose(1), base)
	th.MaybeSpeak(goodPose(2), base.Add(time.Second))
	if th.GoodStreak() != 2 {
		t.Errorf("expected streak 2, got %d", th.GoodStreak())
	}

	th.MaybeSpeak(corrections(pose.MsgHeadPosition), base.Add(2*time.Second))
	if th.GoodStreak() != 0 {
		t.Errorf("expected streak reset on corrections, got %d", th.GoodStreak())
	}
}

func TestThrottle_EmptyFeedbackIsQuiet(t *testing.T) {
	th := NewThrottle(Policy{})
	if _, ok := th.MaybeSpeak(pose.Outcome{Kind: pose.OutcomeCorrections}, base); ok {
		t.Error("outcome without messages should not speak")
	}
}
