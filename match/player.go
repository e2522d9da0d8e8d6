/*
Package match plays matches of Geography between players in separate
processes, or in-process between two players and a referee.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/geography"
	"github.com/npillmayer/geography/exchange"
	"github.com/npillmayer/geography/referee"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geography.match'
func tracer() tracing.Trace {
	return tracing.Select("geography.match")
}

// ErrRuledOut is the cause of losing a match by a referee's ruling.
var ErrRuledOut = errors.New("ruled out by referee")

// Player takes part in a match, answering the moves read from Exchange.
type Player struct {
	Name     string
	Game     *geography.Game
	Exchange exchange.Exchange // writes to the player's slot, reads from its control slot
	Opening  string            // opening city, for the player to move first
	Turn     int               // first turn, defaults to 1
}

// Run plays until the game is over and returns the final outcome. A
// counterpart failing to move in time loses the game, and so does the player
// when the referee rules it out. Run returns an error
// only if the exchange fails.
func (p *Player) Run(ctx context.Context) (geography.Outcome, error) {
	turn := p.Turn
	if turn <= 0 {
		turn = 1
	}
	if p.Opening != "" {
		opening := geography.NormalizeName(p.Opening)
		if err := p.Exchange.Submit(ctx, turn, opening); err != nil {
			return geography.Outcome{}, err
		}
		if !p.Game.Consume(opening) {
			tracer().Infof("%s: opening city %q is not part of the dataset", p.Name, opening)
		}
		turn++
	}
	for {
		text, err := p.Exchange.AwaitAndRead(ctx, turn)
		if err != nil && !errors.Is(err, exchange.ErrTimeout) {
			return geography.Outcome{}, fmt.Errorf("%s: %w", p.Name, err)
		}
		if ruling, ok := strings.CutPrefix(text, referee.LoserPrefix); ok {
			outcome := geography.Outcome{
				Kind: geography.Lose,
				Err:  fmt.Errorf("%w:%s", ErrRuledOut, ruling),
			}
			tracer().Infof("%s: %v", p.Name, outcome.Err)
			return outcome, nil
		}
		outcome := p.Game.NextMove(text)
		tracer().Debugf("%s: turn %d: %q -> %s", p.Name, turn, text, outcome)
		if err := p.Exchange.Submit(ctx, turn, outcome.String()); err != nil {
			return outcome, fmt.Errorf("%s: %w", p.Name, err)
		}
		if outcome.Final() {
			tracer().Infof("%s: %s", p.Name, outcome)
			return outcome, nil
		}
		turn++
	}
}
