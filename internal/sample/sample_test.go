package sample

import (
	"context"
	"errors"
	"testing"

	"github.com/sulavtimsina/expense-sync/internal/models"
)

type fakeRepo struct {
	records map[string]models.Expense
	getErr  error
	inserts int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]models.Expense)}
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.Expense, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeRepo) Insert(_ context.Context, e models.Expense) error {
	f.inserts++
	f.records[e.ID] = e
	return nil
}

func TestIsSampleID(t *testing.T) {
	if !IsSampleID(IDPrefix + "3") {
		t.Fatalf("prefixed id not recognized")
	}
	if IsSampleID("regular-uuid") {
		t.Fatalf("regular id misclassified as sample")
	}
}

func TestSeedInsertsAllEntries(t *testing.T) {
	repo := newFakeRepo()
	p := NewProvider(repo)

	if err := p.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if repo.inserts != len(sampleEntries) {
		t.Fatalf("expected %d inserts, got %d", len(sampleEntries), repo.inserts)
	}
	for id, e := range repo.records {
		if !IsSampleID(id) {
			t.Fatalf("seeded record without prefix: %s", id)
		}
		if !e.Amount.IsPositive() {
			t.Fatalf("seeded record with non-positive amount: %s", id)
		}
		if e.Date.IsZero() {
			t.Fatalf("seeded record without date: %s", id)
		}
	}
}

func TestSeedIdempotent(t *testing.T) {
	repo := newFakeRepo()
	p := NewProvider(repo)

	if err := p.Seed(context.Background()); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	first := repo.inserts
	if err := p.Seed(context.Background()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if repo.inserts != first {
		t.Fatalf("second seed inserted again: %d -> %d", first, repo.inserts)
	}
}

func TestSeedPropagatesLookupError(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("db closed")
	p := NewProvider(repo)

	if err := p.Seed(context.Background()); err == nil {
		t.Fatalf("expected lookup error to propagate")
	}
	if repo.inserts != 0 {
		t.Fatalf("seed inserted despite lookup failure")
	}
}
