package aggregate

import (
	"testing"

	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

func TestBuild_PictureAndDirector(t *testing.T) {
	noms := []movie.Nomination{
		{Title: "A", Category: "Picture", Win: true},
		{Title: "A", Category: "Director", Win: false},
	}

	m := Build(noms, DefaultCategories())

	counts, ok := m.CategoryCounts("A")
	if !ok {
		t.Fatal("CategoryCounts(A) not found")
	}
	if counts["Picture"] != 1 || counts["Director"] != 1 {
		t.Errorf("counts = %v, want Picture=1 Director=1", counts)
	}
	for _, c := range DefaultCategories() {
		if c == "Picture" || c == "Director" {
			continue
		}
		if got, ok := counts[c]; !ok || got != 0 {
			t.Errorf("counts[%q] = %d (present %v), want 0", c, got, ok)
		}
	}
	if got := m.NominationCounts()["a"]; got != 2 {
		t.Errorf("NominationCounts[a] = %d, want 2", got)
	}
	if win, ok := m.PictureWins()["a"]; !ok || !win {
		t.Errorf("PictureWins[a] = %v, %v; want true, true", win, ok)
	}
}

func TestBuild_UnknownCategoryCountsTowardTotal(t *testing.T) {
	noms := []movie.Nomination{
		{Title: "Z", Category: "Dance Direction"},
		{Title: "Z", Category: "Actor"},
	}

	m := Build(noms, DefaultCategories())
	counts, _ := m.CategoryCounts("Z")

	if got := m.NominationCounts()["z"]; got != 2 {
		t.Errorf("NominationCounts[z] = %d, want 2", got)
	}
	if _, ok := counts["Dance Direction"]; ok {
		t.Error("unknown category became a column")
	}
	if len(counts) != len(DefaultCategories()) {
		t.Errorf("len(counts) = %d, want %d", len(counts), len(DefaultCategories()))
	}
}

func TestBuild_WinMissingWithoutPictureRow(t *testing.T) {
	m := Build([]movie.Nomination{
		{Title: "Only Sound", Category: "Sound", Win: true},
		{Title: "Loser", Category: "Picture", Win: false},
	}, DefaultCategories())

	wins := m.PictureWins()
	if _, ok := wins[movie.Key("Only Sound")]; ok {
		t.Error("PictureWins has an entry for a movie without a Picture nomination")
	}
	if win, ok := wins[movie.Key("Loser")]; !ok || win {
		t.Errorf("PictureWins[loser] = %v, %v; want false, true", win, ok)
	}
}

func TestBuild_KeysIgnoreCaseAndSpacing(t *testing.T) {
	m := Build([]movie.Nomination{
		{Title: "The  Artist", Category: "Picture", Win: true},
		{Title: "the artist ", Category: "Actor"},
	}, DefaultCategories())

	counts := m.NominationCounts()
	if len(counts) != 1 {
		t.Fatalf("NominationCounts has %d keys, want 1: %v", len(counts), counts)
	}
	if got := counts["the artist"]; got != 2 {
		t.Errorf("NominationCounts = %d, want 2", got)
	}
}

func TestBuild_Empty(t *testing.T) {
	m := Build(nil, DefaultCategories())
	if n := len(m.NominationCounts()); n != 0 {
		t.Errorf("NominationCounts has %d keys, want 0", n)
	}
	if _, ok := m.CategoryCounts("anything"); ok {
		t.Error("CategoryCounts on empty matrix returned ok")
	}
}

func TestCategoryCounts_ReturnsCopy(t *testing.T) {
	m := Build([]movie.Nomination{{Title: "A", Category: "Actor"}}, DefaultCategories())

	first, _ := m.CategoryCounts("A")
	first["Actor"] = 99

	second, _ := m.CategoryCounts("A")
	if second["Actor"] != 1 {
		t.Errorf("Actor = %d after mutating an earlier result, want 1", second["Actor"])
	}
}
