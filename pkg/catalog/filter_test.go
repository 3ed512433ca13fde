package catalog

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"herbal/entities"
)

func ids(plants []entities.Plant) []string {
	out := []string{}
	for _, p := range plants {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterEmptyQueryIsIdentity(t *testing.T) {
	all := []entities.Plant{{ID: "3", Name: "Sirih"}, {ID: "2", Name: ""}, {ID: "1", Name: "Jahe"}}
	got := Filter(all, "")
	assert.Equal(t, got, all)
	assert.Equal(t, &got[0], &all[0])
}

func TestFilterIgnoresCase(t *testing.T) {
	all := []entities.Plant{{ID: "1", Name: "Jahe Merah"}}
	assert.Equal(t, ids(Filter(all, "jahe")), []string{"1"})
	assert.Equal(t, ids(Filter(all, "JAHE")), []string{"1"})
	assert.Equal(t, ids(Filter(all, "mErAh")), []string{"1"})
}

func TestFilterMatchesSubstring(t *testing.T) {
	all := []entities.Plant{{ID: "1", Name: "Daun Sirih"}, {ID: "2", Name: "Kunyit"}}
	assert.Equal(t, ids(Filter(all, "sirih")), []string{"1"})
	assert.Equal(t, ids(Filter(all, "n")), []string{"1", "2"})
}

func TestFilterSkipsUnnamed(t *testing.T) {
	all := []entities.Plant{{ID: "1", Description: "x"}}
	assert.Equal(t, len(Filter(all, "a")), 0)
	assert.Equal(t, len(Filter(all, "")), 1)
}

func TestFilterKeepsOrderAndIsIdempotent(t *testing.T) {
	all := []entities.Plant{
		{ID: "5", Name: "Temulawak"},
		{ID: "4", Name: "Kunyit Putih"},
		{ID: "3", Name: "Lidah Buaya"},
		{ID: "2", Name: "Kunyit"},
		{ID: "1", Name: "Temu Kunci"},
	}
	once := Filter(all, "kun")
	assert.Equal(t, ids(once), []string{"4", "2", "1"})
	assert.Equal(t, ids(Filter(once, "kun")), ids(once))
}

func TestFilterDoesNotTouchInput(t *testing.T) {
	all := []entities.Plant{{ID: "1", Name: "Jahe"}, {ID: "2", Name: "Kunyit"}}
	_ = Filter(all, "kun")
	assert.Equal(t, ids(all), []string{"1", "2"})
}
