/*
Package geography computes moves for the word-chaining game "Geography".

One player names a city, the other has to answer with a city starting with the
last letter of the opponent's city. Cities may not be repeated, and a player
loses when naming a city nobody could answer.

The package loads a city dataset into a trie partitioned by the last letter of
city names, and keeps a separate count of available cities by first letter.
Answering a city works greedily: candidates ending in the letter the fewest
remaining cities start with are tried first, and a candidate is only played if
it has a valid answer itself. There is no look-ahead beyond that check.

Dataset formats and the exchange of moves between players are outside the base
package. Use adapters like package worldcities to read concrete formats and
package match to run a game loop.

A Game is not safe for concurrent use. Callers sharing a Game between
goroutines must serialize all calls.

Further Reading

	https://datahub.io/core/world-cities

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package geography

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geography'
func tracer() tracing.Trace {
	return tracing.Select("geography")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
