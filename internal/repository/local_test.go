package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/sulavtimsina/expense-sync/internal/errs"
)

func TestLocalInsertWrapsError(t *testing.T) {
	store := &stubLocal{insertErr: errors.New("disk full")}
	r := NewLocal(store)

	err := r.Insert(context.Background(), hybridTestExpense("e1"))
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
}

func TestLocalCRUDStaysLocal(t *testing.T) {
	store := &stubLocal{}
	r := NewLocal(store)

	if err := r.Insert(context.Background(), hybridTestExpense("e1")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := r.Update(context.Background(), hybridTestExpense("e1")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := r.Delete(context.Background(), "e1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.inserted) != 1 || len(store.updated) != 1 || len(store.deleted) != 1 {
		t.Fatalf("local writes missing: %+v", store)
	}
}

func TestLocalObserveDelegates(t *testing.T) {
	r := NewLocal(&stubLocal{})

	snapshot, ok := <-r.ObserveAll(context.Background())
	if !ok || snapshot == nil {
		t.Fatalf("expected an initial snapshot")
	}
}
