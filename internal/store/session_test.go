package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	session := &Session{ID: uuid.NewString()}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.ID != session.ID {
		t.Errorf("ID = %q, want %q", got.ID, session.ID)
	}
	if got.FinishedAt != nil {
		t.Error("new session should not be finished")
	}
	if got.StartedAt.IsZero() {
		t.Error("started_at should be set on create")
	}
}

func TestSessionRepository_Finish(t *testing.T) {
	s := newTestStore(t)

	session := &Session{ID: uuid.NewString()}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Sessions().Finish(session.ID, 182.5, 72); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.FinishedAt == nil {
		t.Error("finished session should have finished_at set")
	}
	if got.BaselineRed != 182.5 {
		t.Errorf("baseline = %f, want 182.5", got.BaselineRed)
	}
	if got.AvgBPM != 72 {
		t.Errorf("avg bpm = %f, want 72", got.AvgBPM)
	}
}

func TestSessionRepository_FinishMissing(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Finish("no-such-id", 0, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.Sessions().Create(&Session{ID: uuid.NewString()}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("len = %d, want 3", len(sessions))
	}
}

func TestSessionRepository_DeleteCascadesSamples(t *testing.T) {
	s := newTestStore(t)

	session := &Session{ID: uuid.NewString()}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sample := &Sample{
		SessionID: session.ID,
		TsMs:      100,
		Phase:     "analyzing",
		Red:       180, Green: 40, Blue: 35,
		Finger: true,
		BPM:    68,
	}
	if err := s.Samples().Add(sample); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Sessions().Delete(session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	samples, err := s.Samples().BySession(session.ID)
	if err != nil {
		t.Fatalf("BySession() error = %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("samples remaining after cascade = %d, want 0", len(samples))
	}
}

func TestSampleRepository_AddAndList(t *testing.T) {
	s := newTestStore(t)

	session := &Session{ID: uuid.NewString()}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		sample := &Sample{
			SessionID: session.ID,
			TsMs:      int64(i * 33),
			Phase:     "calibrating",
			Red:       float64(150 + i),
			Green:     40,
			Blue:      35,
		}
		if err := s.Samples().Add(sample); err != nil {
			t.Fatalf("Add() %d error = %v", i, err)
		}
		if sample.ID == 0 {
			t.Error("Add should populate the sample ID")
		}
	}

	samples, err := s.Samples().BySession(session.ID)
	if err != nil {
		t.Fatalf("BySession() error = %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("len = %d, want 5", len(samples))
	}
	for i, sample := range samples {
		if sample.TsMs != int64(i*33) {
			t.Errorf("sample %d out of order: ts = %d", i, sample.TsMs)
		}
	}

	// The session row tracks the sample count.
	got, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Samples != 5 {
		t.Errorf("session samples = %d, want 5", got.Samples)
	}
}
