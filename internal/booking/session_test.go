package booking

import (
	"reflect"
	"testing"
	"time"
)

func TestToggleServiceFlipsMembership(t *testing.T) {
	sess := NewSession(1, time.Now())

	sess.ToggleService(3)
	sess.ToggleService(1)
	sess.ToggleService(7)
	if !reflect.DeepEqual(sess.Services, []int{3, 1, 7}) {
		t.Fatalf("expected selection order [3 1 7], got %v", sess.Services)
	}

	sess.ToggleService(1)
	if !reflect.DeepEqual(sess.Services, []int{3, 7}) {
		t.Fatalf("expected [3 7] after deselect, got %v", sess.Services)
	}
	if sess.HasService(1) {
		t.Error("expected 1 to be deselected")
	}
}

func TestTogglePairwiseIdempotent(t *testing.T) {
	sess := NewSession(1, time.Now())
	sess.ToggleService(5)
	sess.ToggleService(2)

	before := append([]int(nil), sess.Services...)
	sess.ToggleService(9)
	sess.ToggleService(9)
	if !reflect.DeepEqual(sess.Services, before) {
		t.Errorf("double toggle changed selection: %v -> %v", before, sess.Services)
	}
}

func TestNewSessionStartsAtName(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	sess := NewSession(42, now)
	if sess.Step != StepName {
		t.Errorf("expected initial step NAME, got %s", sess.Step)
	}
	if sess.Name != "" || sess.Phone != "" || sess.Date != "" || sess.Time != "" || len(sess.Services) != 0 {
		t.Error("expected all form fields empty on a fresh session")
	}
}

func TestStepString(t *testing.T) {
	want := map[Step]string{
		StepName:     "NAME",
		StepPhone:    "PHONE",
		StepServices: "SERVICES",
		StepDate:     "DATE_SELECT",
		StepTime:     "TIME_SELECT",
		StepConfirm:  "CONFIRM",
		Step(99):     "UNKNOWN",
	}
	for step, s := range want {
		if step.String() != s {
			t.Errorf("Step(%d).String() = %q, want %q", step, step.String(), s)
		}
	}
}
