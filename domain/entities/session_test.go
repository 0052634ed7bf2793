package entities

import (
	"testing"
	"time"
)

func TestNewStudySessionDefaults(t *testing.T) {
	session := NewStudySession("user-1", "lecture", "en-US", TurnPolicy(2))

	if session.ID == "" {
		t.Error("ID was not assigned")
	}
	if session.Status != SessionStatusActive {
		t.Errorf("Status = %q, want %q", session.Status, SessionStatusActive)
	}
	if session.IsDeleted() {
		t.Error("new session reports deleted")
	}
}

func TestSoftDelete(t *testing.T) {
	session := NewStudySession("user-1", "lecture", "en-US", TurnPolicy(1))
	session.SoftDelete()

	if !session.IsDeleted() {
		t.Error("IsDeleted() = false after SoftDelete()")
	}
	if session.DeletedAt == nil {
		t.Error("DeletedAt was not set")
	}
}

func TestSessionValidate(t *testing.T) {
	valid := func() *StudySession {
		s := NewStudySession("user-1", "lecture", "en-US", TurnPolicy(1))
		s.Segments = []Segment{
			{ID: "seg-0", Start: 0, End: 5, Text: "a", Speaker: 1},
			{ID: "seg-1", Start: 5, End: 9, Text: "b", Speaker: 2},
		}
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*StudySession)
		wantErr bool
	}{
		{"valid", func(s *StudySession) {}, false},
		{"missing user", func(s *StudySession) { s.UserID = "" }, true},
		{"missing title", func(s *StudySession) { s.Title = "" }, true},
		{"bad policy", func(s *StudySession) { s.Policy = TurnPolicy(0) }, true},
		{"inverted segment", func(s *StudySession) { s.Segments[1].End = 4 }, true},
		{"overlapping segments", func(s *StudySession) { s.Segments[1].Start = 4 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSegmentContains(t *testing.T) {
	seg := Segment{Start: 2, End: 5}

	tests := []struct {
		t    float64
		want bool
	}{
		{1.9, false},
		{2.0, true},
		{4.999, true},
		{5.0, false}, // End is exclusive
	}
	for _, tt := range tests {
		if got := seg.Contains(tt.t); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestSlicingPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  SlicingPolicy
		wantErr bool
	}{
		{"turns lower bound", TurnPolicy(1), false},
		{"turns upper bound", TurnPolicy(100), false},
		{"turns too small", TurnPolicy(0), true},
		{"turns too large", TurnPolicy(101), true},
		{"duration lower bound", DurationPolicy(1), false},
		{"duration upper bound", DurationPolicy(60), false},
		{"duration too large", DurationPolicy(61), true},
		{"unknown kind", SlicingPolicy{Kind: "chapters"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVocabularyEntryIsDue(t *testing.T) {
	now := time.Now()
	entry := NewVocabularyEntry("user-1", "hello", "en-US")
	if !entry.IsDue(now) {
		t.Error("fresh entry is not due")
	}

	entry.Review.NextReviewAt = now.Add(24 * time.Hour).UnixMilli()
	if entry.IsDue(now) {
		t.Error("entry scheduled tomorrow reports due today")
	}
}

func TestVocabularyEntryValidate(t *testing.T) {
	entry := NewVocabularyEntry("user-1", "hello", "en-US")
	if err := entry.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	entry.Review.Stage = ReviewStageCount
	if err := entry.Validate(); err == nil {
		t.Error("Validate() accepted an out-of-range stage")
	}
}
