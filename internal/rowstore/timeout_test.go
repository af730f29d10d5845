package rowstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stallStore blocks every operation until its context is canceled.
type stallStore struct{}

func (stallStore) List(ctx context.Context, _ string) ([]Record, error) {
	<-ctx.Done()
	return nil, errors.Join(ErrStoreUnavailable, ctx.Err())
}

func (stallStore) Append(ctx context.Context, _ string, _ Record) error {
	<-ctx.Done()
	return errors.Join(ErrStoreUnavailable, ctx.Err())
}

func (stallStore) Find(ctx context.Context, _, _, _ string) (RowRef, Record, error) {
	<-ctx.Done()
	return RowRef{}, nil, errors.Join(ErrStoreUnavailable, ctx.Err())
}

func (stallStore) UpdateCell(ctx context.Context, _ RowRef, _, _ string) error {
	<-ctx.Done()
	return errors.Join(ErrStoreUnavailable, ctx.Err())
}

func TestTimeoutBoundsHungBackend(t *testing.T) {
	store := WithTimeout(stallStore{}, 20*time.Millisecond)

	start := time.Now()
	_, err := store.List(context.Background(), TableMenu)
	if err == nil {
		t.Fatal("expected an error from a hung backend")
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("List took %v, deadline not applied", elapsed)
	}
}

func TestTimeoutPassesThrough(t *testing.T) {
	m := NewMemory()
	m.Seed(TableMenu, []Record{{ColName: "Country Sourdough"}})

	store := WithTimeout(m, time.Second)
	rows, err := store.List(context.Background(), TableMenu)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0][ColName] != "Country Sourdough" {
		t.Errorf("rows = %v", rows)
	}
}
