package geography

import (
	"errors"
	"fmt"
	"io"
)

// Reasons for a game to end.
var (
	ErrOpponentExhausted = errors.New("opponent ran out of cities")
	ErrInvalidMove       = errors.New("invalid or reused city")
	ErrDeadEnd           = errors.New("no valid response found that would give my opponent a valid choice")
	ErrExhausted         = errors.New("no valid response found")
)

// OutcomeKind classifies the result of a move request.
type OutcomeKind int8

const (
	Move OutcomeKind = iota // a response city has been chosen
	Win                     // the opponent failed
	Lose                    // no response possible
)

func (k OutcomeKind) String() string {
	switch k {
	case Move:
		return "Move"
	case Win:
		return "Win"
	case Lose:
		return "Lose"
	}
	return "<unknown>"
}

// Outcome is the result of NextMove. For Win and Lose, Err holds the cause.
type Outcome struct {
	Kind OutcomeKind
	City City
	Err  error
}

// Final is true for outcomes ending the game.
func (o Outcome) Final() bool {
	return o.Kind != Move
}

// String renders an outcome the way it is handed to the opponent: a city name
// for moves, a message starting with "Winner." or "Loser." otherwise.
func (o Outcome) String() string {
	switch o.Kind {
	case Move:
		return o.City.Name
	case Win:
		return fmt.Sprintf("Winner. %s.", capitalize(o.Err.Error()))
	}
	return fmt.Sprintf("Loser. %s.", capitalize(o.Err.Error()))
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Game holds the cities available to one player.
//
// A game only shrinks after loading: every accepted opponent city and every
// city played in response is removed permanently.
type Game struct {
	partitions *PartitionIndex
	letters    *LetterCounter
	moves      int
	final      *Outcome
	Identifier string // Identifies the dataset
}

// NewGame creates a game without any cities.
func NewGame() *Game {
	return &Game{
		partitions: NewPartitionIndex(),
		letters:    NewLetterCounter(),
	}
}

// LoadGame creates a game from a streaming, format-agnostic source of cities.
//
// Dataset parsing is intentionally outside the base package. Use adapters
// like package worldcities to parse concrete formats and feed this API.
func LoadGame(name string, reader CityReader) (*Game, error) {
	game := NewGame()
	game.Identifier = fmt.Sprintf("cities: %s", name)
	for {
		city, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if city.Name == "" {
			continue // simply skip unnamed cities
		}
		game.Add(city)
	}
	stats := game.Stats()
	tracer().Infof("loaded %s: cities=%d partitions=%d letters=%d",
		game.Identifier, stats.Cities, stats.Partitions, stats.Letters)
	return game, nil
}

// Add makes a city available.
func (g *Game) Add(city City) {
	g.partitions.Insert(city)
	g.letters.Increment(city.First())
}

// Lookup is true if a city with this name is available.
func (g *Game) Lookup(name string) bool {
	_, ok := g.partitions.Lookup(NormalizeName(name))
	return ok
}

// Consume removes a city with this name from the available cities. It is used
// for cities played without calling NextMove, e.g. an opening move.
func (g *Game) Consume(name string) bool {
	_, ok := g.consume(NormalizeName(name))
	return ok
}

func (g *Game) consume(name string) (City, bool) {
	city, ok := g.partitions.RemoveByName(name)
	if !ok {
		return city, false
	}
	removed := g.letters.Decrement(city.First())
	assert(removed, "letter counter out of sync with partitions")
	return city, true
}

// NextMove answers the opponent's city.
//
// The opponent's city is checked and removed. Then a response starting with
// the opponent's last letter is searched, preferring cities which end in a
// letter only few available cities start with. A candidate is played only if
// some other available city could answer it; candidates failing this check
// are discarded.
//
// Once an outcome of kind Win or Lose has been returned, the game is over and
// every further call returns the same outcome.
func (g *Game) NextMove(opponent string) Outcome {
	if g.final != nil {
		return *g.final
	}
	outcome := g.nextMove(NormalizeName(opponent))
	if outcome.Final() {
		g.final = &outcome
		tracer().Infof("game over after %d moves: %s", g.moves, outcome)
	} else {
		g.moves++
	}
	return outcome
}

func (g *Game) nextMove(opponent string) Outcome {
	if opponent == "" {
		return Outcome{Kind: Win, Err: ErrOpponentExhausted}
	}
	tracer().Debugf("opponent's city = %q", opponent)
	if _, ok := g.consume(opponent); !ok {
		tracer().Infof("opponent's city %q is not available", opponent)
		return Outcome{Kind: Win, Err: ErrInvalidMove}
	}
	first := lastLetter(opponent)
	deadEnds := 0
	for _, letter := range g.letters.Letters() { // scarcest letters first
		p := g.partitions.Partition(letter)
		if p == nil {
			continue
		}
		candidates := p.StartingWith(first)
		if candidates == nil {
			continue
		}
		city, ok := candidates.Any()
		if !ok {
			continue
		}
		valid := g.hasValidResponse(city)
		g.consume(city.Name)
		if valid {
			return Outcome{Kind: Move, City: city}
		}
		tracer().Debugf("discarding dead end %q", city.Name)
		deadEnds++
	}
	if deadEnds > 0 {
		return Outcome{Kind: Lose, Err: ErrDeadEnd}
	}
	return Outcome{Kind: Lose, Err: ErrExhausted}
}

// hasValidResponse is true if a city other than city starts with city's last
// letter.
func (g *Game) hasValidResponse(city City) bool {
	letter := city.Last()
	for _, p := range g.partitions.Partitions() {
		if p.Count() == 0 {
			continue
		}
		if responses := p.StartingWith(letter); responses != nil {
			if _, ok := responses.AnyExcluding(city); ok {
				return true
			}
		}
	}
	return false
}

// Stats reports the size of a game.
type Stats struct {
	Cities     int // available cities
	Partitions int // number of distinct last letters
	Letters    int // number of distinct first letters
	Moves      int // responses played
}

// Stats returns size information about the game.
func (g *Game) Stats() Stats {
	return Stats{
		Cities:     g.partitions.Total(),
		Partitions: g.partitions.Len(),
		Letters:    g.letters.Len(),
		Moves:      g.moves,
	}
}

// Over is true if the game has ended.
func (g *Game) Over() bool {
	return g.final != nil
}
