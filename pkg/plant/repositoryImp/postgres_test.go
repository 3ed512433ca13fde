package repositoryImp

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"herbal/entities"
	"herbal/pkg/plant/repository"
)

// Runs only against a disposable database named by HERBAL_TEST_DATABASE_URL.
func TestPostgresRepo(t *testing.T) {
	dburl := os.Getenv("HERBAL_TEST_DATABASE_URL")
	if dburl == "" {
		t.Skip("HERBAL_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	r, err := NewPostgres(ctx, dburl)
	assert.Equal(t, err, nil)
	defer r.Close()
	_, err = r.pool.Exec(ctx, `TRUNCATE plants;`)
	assert.Equal(t, err, nil)

	changed := make(chan struct{}, 8)
	lctx, lcancel := context.WithCancel(ctx)
	defer lcancel()
	go r.ListenChanges(lctx, func(context.Context) { changed <- struct{}{} })
	time.Sleep(200 * time.Millisecond)

	p := &entities.Plant{Name: "Kunyit", Compounds: []entities.Compound{{Name: "Kurkumin", Amount: "3%"}}}
	assert.Equal(t, r.Create(ctx, p), nil)
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	got, err := r.FindByID(ctx, p.ID)
	assert.Equal(t, err, nil)
	assert.Equal(t, got.Compounds, p.Compounds)

	p.Name = "Kunyit Putih"
	assert.Equal(t, r.Update(ctx, p), nil)
	list, err := r.ListNewestFirst(ctx)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(list), 1)
	assert.Equal(t, list[0].Name, "Kunyit Putih")

	assert.Equal(t, r.Delete(ctx, p.ID), nil)
	assert.Equal(t, r.Delete(ctx, p.ID), repository.ErrNotFound)
}
