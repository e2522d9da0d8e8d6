package geography

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newGame(t *testing.T, names ...string) *Game {
	t.Helper()
	cities := make([]City, len(names))
	for i, name := range names {
		cities[i] = city(t, name, i+1)
	}
	game, err := LoadGame("test", CityList(cities...))
	if err != nil {
		t.Fatal(err)
	}
	return game
}

// checkGame verifies the counts of both indices against the tries.
func checkGame(t *testing.T, g *Game) {
	t.Helper()
	checkPartitions(t, g.partitions)
	firsts := make(map[rune]int)
	for _, p := range g.partitions.Partitions() {
		p.root.Walk(func(_ string, c City) bool {
			firsts[c.First()]++
			return true
		})
	}
	if len(firsts) != g.letters.Len() {
		t.Fatalf("letter counter has %d letters, cities start with %d", g.letters.Len(), len(firsts))
	}
	for letter, n := range firsts {
		if g.letters.Count(letter) != n {
			t.Fatalf("letter %q counted %d times, %d cities start with it",
				letter, g.letters.Count(letter), n)
		}
	}
}

func TestNextMoveScenarios(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "geography")
	defer teardown()
	//
	game := newGame(t, "Paris", "Seoul", "London")
	out := game.NextMove("Paris")
	if out.Kind != Move || out.City.Name != "seoul" {
		t.Fatalf("expected seoul as response to paris, have %v", out)
	}
	checkGame(t, game)
	if game.Lookup("paris") || game.Lookup("seoul") {
		t.Fatalf("played cities must not be available any more")
	}
	out = game.NextMove("paris")
	if out.Kind != Win || !errors.Is(out.Err, ErrInvalidMove) {
		t.Fatalf("expected win for reused city, have %v", out)
	}
	if out.String() != "Winner. Invalid or reused city." {
		t.Fatalf("unexpected wire text %q", out.String())
	}
	//
	game = newGame(t, "Reno")
	out = game.NextMove("reno")
	if out.Kind != Lose || !errors.Is(out.Err, ErrExhausted) {
		t.Fatalf("expected to lose with an empty dataset, have %v", out)
	}
	if s := game.Stats(); s.Cities != 0 || s.Partitions != 0 || s.Letters != 0 {
		t.Fatalf("expected reno to be consumed, have %+v", s)
	}
}

func TestNextMovePrefersScarceLetters(t *testing.T) {
	tests := []struct {
		name   string
		cities []string
		want   string
	}{
		{"s is scarcer", []string{"lima", "amsterdam", "athens", "madrid", "munich", "milan", "sofia"}, "athens"},
		{"m is scarcer", []string{"lima", "amsterdam", "athens", "madrid", "sofia", "sucre", "salta"}, "amsterdam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := newGame(t, tt.cities...)
			out := game.NextMove("lima")
			if out.Kind != Move || out.City.Name != tt.want {
				t.Fatalf("expected %s, have %v", tt.want, out)
			}
			checkGame(t, game)
		})
	}
}

func TestNextMoveUnknownCityLeavesGame(t *testing.T) {
	game := newGame(t, "Paris", "Seoul", "London")
	before := game.Stats()
	out := game.NextMove("Atlantis")
	if out.Kind != Win || !errors.Is(out.Err, ErrInvalidMove) {
		t.Fatalf("expected win for unknown city, have %v", out)
	}
	if after := game.Stats(); after.Cities != before.Cities || after.Letters != before.Letters {
		t.Fatalf("unknown city changed the game: %+v -> %+v", before, after)
	}
	checkGame(t, game)
}

func TestNextMoveEmptyInput(t *testing.T) {
	game := newGame(t, "Paris")
	out := game.NextMove("  ")
	if out.Kind != Win || !errors.Is(out.Err, ErrOpponentExhausted) {
		t.Fatalf("expected win on empty input, have %v", out)
	}
	if out.String() != "Winner. Opponent ran out of cities." {
		t.Fatalf("unexpected wire text %q", out.String())
	}
}

func TestNextMoveDiscardsDeadEnds(t *testing.T) {
	game := newGame(t, "Ka", "A")
	out := game.NextMove("ka")
	if out.Kind != Lose || !errors.Is(out.Err, ErrDeadEnd) {
		t.Fatalf("expected dead end, have %v", out)
	}
	if game.Lookup("a") {
		t.Fatalf("dead end candidate must be consumed")
	}
	// a second city named "a" is a valid response
	game = newGame(t, "Ka", "A", "A")
	out = game.NextMove("ka")
	if out.Kind != Move || out.City.ID != 2 {
		t.Fatalf("expected first 'a' as response, have %v", out)
	}
}

func TestOutcomeIsFinal(t *testing.T) {
	game := newGame(t, "Paris", "Seoul")
	out := game.NextMove("Rome")
	if !out.Final() || !game.Over() {
		t.Fatalf("expected game to be over")
	}
	if again := game.NextMove("paris"); again != out {
		t.Fatalf("expected terminal outcome to repeat, have %v", again)
	}
	if !game.Lookup("paris") {
		t.Fatalf("moves after the end must not consume cities")
	}
}

func TestConsumeOpening(t *testing.T) {
	game := newGame(t, "Paris", "Seoul", "London")
	if !game.Consume("PARIS") {
		t.Fatalf("expected paris to be consumed")
	}
	if game.Consume("paris") {
		t.Fatalf("paris must not be consumed twice")
	}
	checkGame(t, game)
}

func TestPlayoutKeepsInvariants(t *testing.T) {
	names := []string{"amsterdam", "athens", "berlin", "bern", "bonn", "dublin", "madrid",
		"munich", "milan", "moscow", "nairobi", "naples", "oslo", "ottawa", "seoul",
		"sofia", "lima", "lagos", "london", "warsaw", "wien", "nice", "essen", "nantes"}
	game := newGame(t, names...)
	opponent := newGame(t, names...)
	played := "london"
	opponent.Consume(played)
	for moves := 0; moves < 2*len(names); moves++ {
		out := game.NextMove(played)
		checkGame(t, game)
		if out.Final() {
			return
		}
		if out.City.First() != lastLetter(played) {
			t.Fatalf("%s does not answer %s", out.City.Name, played)
		}
		game, opponent = opponent, game
		played = out.City.Name
	}
	t.Fatalf("game did not terminate")
}
