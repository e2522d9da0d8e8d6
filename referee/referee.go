/*
Package referee implements the controller of a match between two players.

The referee relays moves between two players. Every move is checked before
it is forwarded: the city has to exist and must not have been played before,
it has to start with the last letter of the previous city, and some unused
city has to be available to answer it. The first move failing a check ends
the match, as does a player not moving in time.

Player one opens the match. For every turn n the referee reads player one's
move n and forwards it to player two as turn n. Then it reads player two's
move n and forwards it to player one as turn n+1.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package referee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/geography"
	"github.com/npillmayer/geography/exchange"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geography.referee'
func tracer() tracing.Trace {
	return tracing.Select("geography.referee")
}

// Reasons for a player to lose a match.
var (
	ErrNoMove      = errors.New("no move in time")
	ErrUnknownCity = errors.New("invalid or reused city")
	ErrWrongLetter = errors.New("city does not start with the last letter of the previous city")
	ErrDeadEnd     = errors.New("city has no valid response")
	ErrGaveUp      = errors.New("player ended the match")
)

// Names of the players in verdicts.
const (
	Player1 = "Player1"
	Player2 = "Player2"
)

// Verdict is the result of a match.
type Verdict struct {
	Winner string
	Loser  string
	Reason error
	Moves  int    // number of valid moves
	Last   string // last valid city
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s wins after %d moves, %s lost: %v", v.Winner, v.Moves, v.Loser, v.Reason)
}

// Referee relays and checks moves between two players. Player1 and Player2
// are the referee's ends of the exchanges with the players: the referee
// writes to their control slots and reads from their player slots.
type Referee struct {
	Registry *Registry
	Player1  exchange.Exchange
	Player2  exchange.Exchange
	Turn     int // first turn, defaults to 1
}

// Run relays moves until one player fails. It returns an error only if an
// exchange fails.
func (r *Referee) Run(ctx context.Context) (Verdict, error) {
	turn := r.Turn
	if turn <= 0 {
		turn = 1
	}
	previous := ""
	moves := 0
	for {
		m, err := r.receive(ctx, r.Player1, turn, previous)
		if err != nil {
			return Verdict{}, err
		}
		if m.foul != nil {
			return r.end(ctx, Player2, Player1, m.foul, moves, previous,
				notice{r.Player2, turn}, notice{r.Player1, turn + 1})
		}
		moves, previous = moves+1, m.city
		if err := r.Player2.Submit(ctx, turn, m.city); err != nil {
			return Verdict{}, err
		}
		m, err = r.receive(ctx, r.Player2, turn, previous)
		if err != nil {
			return Verdict{}, err
		}
		if m.foul != nil {
			return r.end(ctx, Player1, Player2, m.foul, moves, previous,
				notice{r.Player1, turn + 1}, notice{r.Player2, turn + 1})
		}
		moves, previous = moves+1, m.city
		turn++
		if err := r.Player1.Submit(ctx, turn, m.city); err != nil {
			return Verdict{}, err
		}
	}
}

// move is a checked move. If the move breaks a rule, foul holds the reason.
type move struct {
	city string
	foul error
}

// receive reads and checks a move. It returns an error only if the exchange
// fails.
func (r *Referee) receive(ctx context.Context, from exchange.Exchange, turn int, previous string) (move, error) {
	text, err := from.AwaitAndRead(ctx, turn)
	if err != nil && !errors.Is(err, exchange.ErrTimeout) {
		return move{}, err
	}
	tracer().Debugf("turn %d: received %q", turn, text)
	return r.check(previous, text), nil
}

func (r *Referee) check(previous, text string) move {
	city := geography.NormalizeName(text)
	if city == "" {
		return move{foul: ErrNoMove}
	}
	if strings.HasPrefix(city, "winner.") || strings.HasPrefix(city, "loser.") {
		return move{foul: fmt.Errorf("%w: %s", ErrGaveUp, text)}
	}
	if previous != "" {
		last := []rune(previous)
		if []rune(city)[0] != last[len(last)-1] {
			return move{foul: fmt.Errorf("%w: %q after %q", ErrWrongLetter, city, previous)}
		}
	}
	if _, ok := r.Registry.Consume(city); !ok {
		if suggestion, ok := r.Registry.Suggest(city); ok {
			return move{foul: fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownCity, city, suggestion)}
		}
		return move{foul: fmt.Errorf("%w: %q", ErrUnknownCity, city)}
	}
	if !r.Registry.HasResponse(city) {
		return move{foul: fmt.Errorf("%w: %q", ErrDeadEnd, city)}
	}
	return move{city: city}
}

// LoserPrefix starts the message a player receives instead of a move when it
// has lost a match by a foul.
const LoserPrefix = "Loser."

// notice addresses a player's next turn.
type notice struct {
	to   exchange.Exchange
	turn int
}

// end tells both players that the match is over. The winner is handed an
// empty move. Unless the loser gave up by itself, it is handed a message
// starting with LoserPrefix.
func (r *Referee) end(ctx context.Context, winner, loser string, reason error, moves int,
	last string, waiting, fouled notice) (Verdict, error) {
	//
	v := Verdict{
		Winner: winner,
		Loser:  loser,
		Reason: reason,
		Moves:  moves,
		Last:   last,
	}
	tracer().Infof("match over: %s", v)
	if err := waiting.to.Submit(ctx, waiting.turn, ""); err != nil {
		return v, err
	}
	if errors.Is(reason, ErrGaveUp) {
		return v, nil
	}
	if err := fouled.to.Submit(ctx, fouled.turn, fmt.Sprintf("%s %v", LoserPrefix, reason)); err != nil {
		return v, err
	}
	return v, nil
}
