package sync

import (
	"errors"
	"fmt"
	"testing"
)

func TestMemorySinkBounded(t *testing.T) {
	s := NewMemorySink(3)
	for i := 0; i < 5; i++ {
		s.Record(Outcome{RecordID: fmt.Sprintf("r%d", i), Op: "upsert", Status: StatusPushed})
	}

	recent := s.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected ring of 3, got %d", len(recent))
	}
	if recent[0].RecordID != "r2" || recent[2].RecordID != "r4" {
		t.Fatalf("oldest entries not evicted: %+v", recent)
	}
}

func TestMemorySinkStampsTime(t *testing.T) {
	s := NewMemorySink(10)
	s.Record(Outcome{RecordID: "a", Op: "delete", Status: StatusPushed})

	if s.Recent()[0].At.IsZero() {
		t.Fatalf("expected At to be stamped on record")
	}
}

func TestMemorySinkFailures(t *testing.T) {
	s := NewMemorySink(10)
	s.Record(Outcome{RecordID: "ok", Op: "upsert", Status: StatusPushed})
	s.Record(Outcome{RecordID: "bad", Op: "upsert", Status: StatusFailed, Err: errors.New("boom")})
	s.Record(Outcome{RecordID: "skip", Op: "upsert", Status: StatusSkipped, Reason: "sample record"})

	failures := s.Failures()
	if len(failures) != 1 || failures[0].RecordID != "bad" {
		t.Fatalf("unexpected failures: %+v", failures)
	}
}
