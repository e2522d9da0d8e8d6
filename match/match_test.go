package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/npillmayer/geography"
	"github.com/npillmayer/geography/exchange"
	"github.com/npillmayer/geography/referee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cities(t *testing.T, names ...string) []geography.City {
	t.Helper()
	list := make([]geography.City, len(names))
	for i, name := range names {
		c, err := geography.NewCity(name, "", "", i+1)
		require.NoError(t, err)
		list[i] = c
	}
	return list
}

func fastFiles(t *testing.T) Connector {
	return FileConnector(t.TempDir(), exchange.Interval(2*time.Millisecond),
		exchange.Timeout(2*time.Second))
}

func checkResult(t *testing.T, result Result) {
	t.Helper()
	assert.Equal(t, referee.Player1, result.Verdict.Winner)
	assert.ErrorIs(t, result.Verdict.Reason, referee.ErrGaveUp)
	assert.Equal(t, 3, result.Verdict.Moves)
	assert.Equal(t, "london", result.Verdict.Last)
	assert.Equal(t, geography.Win, result.Player1.Kind)
	assert.Equal(t, geography.Lose, result.Player2.Kind)
	assert.ErrorIs(t, result.Player2.Err, geography.ErrExhausted)
}

func TestSelfPlayFiles(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := SelfPlay(ctx, SelfPlayConfig{
		Cities:  cities(t, "Paris", "Seoul", "London", "Nairobi"),
		Opening: "Paris",
		Connect: fastFiles(t),
	})
	require.NoError(t, err)
	checkResult(t, result)
}

func TestSelfPlayRedis(t *testing.T) {
	m := miniredis.RunT(t)
	client, err := exchange.Dial(m.Addr(), 0)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := SelfPlay(ctx, SelfPlayConfig{
		Cities:  cities(t, "Paris", "Seoul", "London", "Nairobi"),
		Opening: "paris",
		Connect: RedisConnector(client, "match-1", exchange.Interval(2*time.Millisecond),
			exchange.Timeout(2*time.Second)),
	})
	require.NoError(t, err)
	checkResult(t, result)
	assert.True(t, m.Exists("match-1:Player1_1"))
}

func TestSelfPlayNeedsOpening(t *testing.T) {
	_, err := SelfPlay(context.Background(), SelfPlayConfig{})
	require.Error(t, err)
}

func TestPlayerWinsOnTimeout(t *testing.T) {
	connect := FileConnector(t.TempDir(), exchange.Interval(2*time.Millisecond),
		exchange.Timeout(20*time.Millisecond))
	x, err := connect(exchange.PlayerSlot(Player2Prefix), exchange.ControlSlot(CTRLPlayer2Prefix))
	require.NoError(t, err)
	game, err := geography.LoadGame("p2", geography.CityList(cities(t, "Paris", "Seoul")...))
	require.NoError(t, err)
	p := &Player{Name: Player2Prefix, Game: game, Exchange: x}
	out, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, geography.Win, out.Kind)
	assert.True(t, errors.Is(out.Err, geography.ErrOpponentExhausted))

	// the outcome has been written to the player's slot
	ref, err := connect(exchange.ControlSlot(CTRLPlayer2Prefix), exchange.PlayerSlot(Player2Prefix))
	require.NoError(t, err)
	text, err := ref.AwaitAndRead(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Winner. Opponent ran out of cities.", text)
}

func TestPlayerOpens(t *testing.T) {
	connect := FileConnector(t.TempDir(), exchange.Interval(2*time.Millisecond),
		exchange.Timeout(time.Second))
	x, err := connect(exchange.PlayerSlot(Player1Prefix), exchange.ControlSlot(CTRLPlayer1Prefix))
	require.NoError(t, err)
	ref, err := connect(exchange.ControlSlot(CTRLPlayer1Prefix), exchange.PlayerSlot(Player1Prefix))
	require.NoError(t, err)
	game, err := geography.LoadGame("p1", geography.CityList(cities(t, "Paris", "Seoul", "London")...))
	require.NoError(t, err)
	p := &Player{Name: Player1Prefix, Game: game, Exchange: x, Opening: "PARIS"}

	ctx := context.Background()
	go func() {
		// answer the opening with a city player one cannot answer
		if text, err := ref.AwaitAndRead(ctx, 1); err == nil && text == "paris" {
			ref.Submit(ctx, 2, "seoul")
		}
	}()
	out, err := p.Run(ctx)
	require.NoError(t, err)
	// london would leave no city starting with its last letter
	assert.Equal(t, geography.Lose, out.Kind)
	assert.False(t, game.Lookup("paris"))
	assert.False(t, game.Lookup("seoul"))
}

func TestPlayerRuledOutByReferee(t *testing.T) {
	connect := FileConnector(t.TempDir(), exchange.Interval(2*time.Millisecond),
		exchange.Timeout(time.Second))
	x, err := connect(exchange.PlayerSlot(Player2Prefix), exchange.ControlSlot(CTRLPlayer2Prefix))
	require.NoError(t, err)
	ref, err := connect(exchange.ControlSlot(CTRLPlayer2Prefix), exchange.PlayerSlot(Player2Prefix))
	require.NoError(t, err)
	game, err := geography.LoadGame("p2", geography.CityList(cities(t, "Paris", "Seoul", "London")...))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ref.Submit(ctx, 1, "paris"))
	require.NoError(t, ref.Submit(ctx, 2, referee.LoserPrefix+` city has no valid response: "seoul"`))
	p := &Player{Name: Player2Prefix, Game: game, Exchange: x}
	out, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, geography.Lose, out.Kind)
	assert.ErrorIs(t, out.Err, ErrRuledOut)
	assert.Contains(t, out.Err.Error(), "seoul")

	// the player's answer to turn 1 is its last move
	text, err := ref.AwaitAndRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "seoul", text)
	_, err = ref.AwaitAndRead(ctx, 2)
	assert.ErrorIs(t, err, exchange.ErrTimeout)
}
