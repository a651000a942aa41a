package merge

import (
	"testing"

	"github.com/pfrederiksen/bom-oscars/internal/aggregate"
	"github.com/pfrederiksen/bom-oscars/internal/movie"
)

func TestJoin(t *testing.T) {
	movies := []movie.Movie{
		{Title: "Gladiator", Year: 2000, PreNomGross: 187.3},
		{Title: "Chocolat", Year: 2000},
		{Title: "Traffic", Year: 2000},
	}
	noms := []movie.Nomination{
		{Title: "Gladiator", Category: "Picture", Win: true},
		{Title: "Gladiator", Category: "Actor", Win: true},
		{Title: "Traffic", Category: "Director", Win: true},
	}

	rows := Join(movies, aggregate.Build(noms, aggregate.DefaultCategories()))

	if len(rows) != len(movies) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(movies))
	}
	for i, r := range rows {
		if r.Title != movies[i].Title {
			t.Errorf("row %d title = %q, want %q", i, r.Title, movies[i].Title)
		}
	}

	glad := rows[0]
	if !glad.HasNominations || glad.Nominations != 2 || glad.Counts["Actor"] != 1 {
		t.Errorf("Gladiator row = %+v", glad)
	}
	if !glad.HasWin || !glad.Win {
		t.Errorf("Gladiator Win = %v/%v, want true", glad.Win, glad.HasWin)
	}
	if glad.PreNomGross != 187.3 {
		t.Errorf("PreNomGross = %v, want 187.3", glad.PreNomGross)
	}

	choc := rows[1]
	if choc.HasNominations || choc.Counts != nil || choc.HasWin {
		t.Errorf("Chocolat should have missing figures, got %+v", choc)
	}

	traffic := rows[2]
	if !traffic.HasNominations || traffic.HasWin {
		t.Errorf("Traffic: HasNominations=%v HasWin=%v, want true false",
			traffic.HasNominations, traffic.HasWin)
	}
}

func TestJoin_TitleCollisionSharesFigures(t *testing.T) {
	movies := []movie.Movie{
		{Title: "Little Women", Year: 1994},
		{Title: "Little Women", Year: 2019},
	}
	noms := []movie.Nomination{
		{Title: "Little Women", Category: "Actress"},
		{Title: "Little Women", Category: "Picture"},
		{Title: "Little Women", Category: "Actress"},
	}

	rows := Join(movies, aggregate.Build(noms, aggregate.DefaultCategories()))

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	for _, r := range rows {
		if r.Nominations != 3 || r.Counts["Actress"] != 2 {
			t.Errorf("year %d: Nominations=%d Actress=%d, want pooled 3 and 2",
				r.Year, r.Nominations, r.Counts["Actress"])
		}
	}

	collisions := Collisions(movies)
	if len(collisions) != 1 {
		t.Fatalf("Collisions() = %+v, want one", collisions)
	}
	if c := collisions[0]; c.Key != "little women" || len(c.Years) != 2 || c.Years[1] != 2019 {
		t.Errorf("collision = %+v", c)
	}
}

func TestCollisions_None(t *testing.T) {
	got := Collisions([]movie.Movie{{Title: "A"}, {Title: "B"}})
	if len(got) != 0 {
		t.Errorf("Collisions() = %+v, want none", got)
	}
}

func TestJoin_CollidingRowsDoNotShareCounts(t *testing.T) {
	movies := []movie.Movie{
		{Title: "Little Women", Year: 1994},
		{Title: "Little Women", Year: 2019},
	}
	noms := []movie.Nomination{{Title: "Little Women", Category: "Actress"}}

	rows := Join(movies, aggregate.Build(noms, aggregate.DefaultCategories()))
	rows[0].Counts["Actress"] = 7

	if got := rows[1].Counts["Actress"]; got != 1 {
		t.Errorf("2019 Actress = %d after editing the 1994 row, want 1", got)
	}
}

func TestJoin_WinWithoutPictureRowIsMissing(t *testing.T) {
	movies := []movie.Movie{{Title: "Traffic", Year: 2000}}
	noms := []movie.Nomination{
		{Title: "Traffic", Category: "Director", Win: true},
		{Title: "traffic", Category: "Editing", Win: true},
	}

	rows := Join(movies, aggregate.Build(noms, aggregate.DefaultCategories()))

	r := rows[0]
	if !r.HasNominations || r.Nominations != 2 {
		t.Errorf("Nominations = %d/%v, want 2/true", r.Nominations, r.HasNominations)
	}
	if r.HasWin {
		t.Errorf("HasWin = true, want missing without a Picture nomination")
	}
}
