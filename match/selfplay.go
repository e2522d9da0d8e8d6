package match

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-redis/redis"
	"github.com/npillmayer/geography"
	"github.com/npillmayer/geography/exchange"
	"github.com/npillmayer/geography/referee"
	"golang.org/x/sync/errgroup"
)

// Prefixes of the slots used in a match.
const (
	Player1Prefix     = "Player1"
	Player2Prefix     = "Player2"
	CTRLPlayer1Prefix = "CTRLPlayer1"
	CTRLPlayer2Prefix = "CTRLPlayer2"
)

// Connector creates the exchange for a participant writing to slot out and
// reading from slot in.
type Connector func(out, in exchange.Slot) (exchange.Exchange, error)

// FileConnector connects participants through directory dir.
func FileConnector(dir string, opts ...exchange.Option) Connector {
	return func(out, in exchange.Slot) (exchange.Exchange, error) {
		f, err := exchange.NewFile(dir, out, in, opts...)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// RedisConnector connects participants through a Redis server. Keys of
// different matches are kept apart by namespace.
func RedisConnector(client *redis.Client, namespace string, opts ...exchange.Option) Connector {
	return func(out, in exchange.Slot) (exchange.Exchange, error) {
		return exchange.NewRedis(client, namespace, out, in, opts...), nil
	}
}

// SelfPlayConfig configures a match between two in-process players.
type SelfPlayConfig struct {
	Cities  []geography.City // dataset for both players and the referee
	Opening string           // player one's opening city
	Connect Connector        // defaults to files in a temporary directory
}

// Result is the result of a self-played match.
type Result struct {
	Verdict referee.Verdict
	Player1 geography.Outcome
	Player2 geography.Outcome
}

// SelfPlay plays a match between two players, both using the same dataset,
// controlled by a referee. Players and referee run concurrently and talk
// through exchanges only.
func SelfPlay(ctx context.Context, conf SelfPlayConfig) (Result, error) {
	if conf.Opening == "" {
		return Result{}, errors.New("self-play needs an opening city")
	}
	connect := conf.Connect
	if connect == nil {
		dir, err := os.MkdirTemp("", "geography-")
		if err != nil {
			return Result{}, err
		}
		defer os.RemoveAll(dir)
		connect = FileConnector(dir)
	}
	player1, err := newPlayer(Player1Prefix, CTRLPlayer1Prefix, conf, connect)
	if err != nil {
		return Result{}, err
	}
	player1.Opening = conf.Opening
	player2, err := newPlayer(Player2Prefix, CTRLPlayer2Prefix, conf, connect)
	if err != nil {
		return Result{}, err
	}
	ref, err := newReferee(conf, connect)
	if err != nil {
		return Result{}, err
	}
	var result Result
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.Verdict, err = ref.Run(ctx)
		return
	})
	g.Go(func() (err error) {
		result.Player1, err = player1.Run(ctx)
		return
	})
	g.Go(func() (err error) {
		result.Player2, err = player2.Run(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return result, err
	}
	tracer().Infof("self-play: %s", result.Verdict)
	return result, nil
}

func newPlayer(prefix, ctrl string, conf SelfPlayConfig, connect Connector) (*Player, error) {
	game, err := geography.LoadGame(prefix, geography.CityList(conf.Cities...))
	if err != nil {
		return nil, err
	}
	x, err := connect(exchange.PlayerSlot(prefix), exchange.ControlSlot(ctrl))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", prefix, err)
	}
	return &Player{Name: prefix, Game: game, Exchange: x}, nil
}

func newReferee(conf SelfPlayConfig, connect Connector) (*referee.Referee, error) {
	registry, err := referee.LoadRegistry(geography.CityList(conf.Cities...))
	if err != nil {
		return nil, err
	}
	x1, err := connect(exchange.ControlSlot(CTRLPlayer1Prefix), exchange.PlayerSlot(Player1Prefix))
	if err != nil {
		return nil, err
	}
	x2, err := connect(exchange.ControlSlot(CTRLPlayer2Prefix), exchange.PlayerSlot(Player2Prefix))
	if err != nil {
		return nil, err
	}
	return &referee.Referee{Registry: registry, Player1: x1, Player2: x2}, nil
}
