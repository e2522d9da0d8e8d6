// Command geography plays the Geography city game, as a player process, as
// the referee process, or in-process against itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/npillmayer/geography"
	"github.com/npillmayer/geography/citydb"
	"github.com/npillmayer/geography/config"
	"github.com/npillmayer/geography/exchange"
	"github.com/npillmayer/geography/match"
	"github.com/npillmayer/geography/referee"
	"github.com/npillmayer/geography/worldcities"
)

// Global flags
var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configFile = flag.String("config", "", "Configuration file (YAML)")
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, cfg *config.Config, args []string) error
}

// Available commands
var commands = []Command{
	{
		Name:        "play",
		Description: "Play as a player process",
		Run:         runPlay,
	},
	{
		Name:        "referee",
		Description: "Control a match between two player processes",
		Run:         runReferee,
	},
	{
		Name:        "selfplay",
		Description: "Play a match of two players and a referee in-process",
		Run:         runSelfPlay,
	},
	{
		Name:        "next",
		Description: "Answer a sequence of cities",
		Run:         runNext,
	},
	{
		Name:        "stats",
		Description: "Show statistics of the dataset",
		Run:         runStats,
	},
}

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: %s [flags] command [arguments]\n", os.Args[0])
		fmt.Fprintf(out, "\nAvailable commands:\n")
		for _, cmd := range commands {
			fmt.Fprintf(out, "  %-10s %s\n", cmd.Name, cmd.Description)
		}
		fmt.Fprintf(out, "\nGlobal flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  \t%s -config player1.yaml play\n", os.Args[0])
		fmt.Fprintf(out, "  \t%s -config controller.yaml referee\n", os.Args[0])
		fmt.Fprintf(out, "  \t%s selfplay -start Paris\n", os.Args[0])
		fmt.Fprintf(out, "  \t%s next Paris Yokohama\n", os.Args[0])
	}
	flag.Parse()

	if *helpFlag || len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(0)
	}
	var cmd *Command
	for i := range commands {
		if commands[i].Name == flag.Arg(0) {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	teardown, err := config.SetupTracing(cfg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer teardown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.Run(ctx, cfg, flag.Args()[1:]); err != nil {
		log.Printf("Error: %v", err)
		teardown()
		stop()
		os.Exit(1)
	}
}

// Command implementations

func runPlay(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	start := fs.String("start", cfg.Player.StartCity, "Opening city, for player one")
	prefix := fs.String("prefix", cfg.Player.Prefix, "Prefix of the player's moves")
	ctrl := fs.String("ctrl", cfg.Player.CTRLPrefix, "Prefix of the referee's moves")
	fs.Parse(args)

	game, err := loadGame(ctx, cfg, cfg.Player.DataFile)
	if err != nil {
		return err
	}
	connect, closer, err := connector(cfg, cfg.Player.GameDirectory)
	if err != nil {
		return err
	}
	defer closer()
	x, err := connect(exchange.PlayerSlot(*prefix), exchange.ControlSlot(*ctrl))
	if err != nil {
		return err
	}
	player := &match.Player{
		Name:     *prefix,
		Game:     game,
		Exchange: x,
		Turn:     cfg.Player.PlayerIndex,
	}
	if *prefix == match.Player1Prefix {
		if *start == "" {
			return fmt.Errorf("player one needs an opening city")
		}
		player.Opening = *start
	}
	outcome, err := player.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(outcome)
	return nil
}

func runReferee(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("referee", flag.ExitOnError)
	fs.Parse(args)

	cities, closeCities, err := openCities(ctx, cfg, cfg.Controller.DataFile)
	if err != nil {
		return err
	}
	registry, err := referee.LoadRegistry(cities)
	closeCities()
	if err != nil {
		return err
	}
	connect, closer, err := connector(cfg, cfg.Controller.GameDirectory)
	if err != nil {
		return err
	}
	defer closer()
	x1, err := connect(exchange.ControlSlot(match.CTRLPlayer1Prefix), exchange.PlayerSlot(match.Player1Prefix))
	if err != nil {
		return err
	}
	x2, err := connect(exchange.ControlSlot(match.CTRLPlayer2Prefix), exchange.PlayerSlot(match.Player2Prefix))
	if err != nil {
		return err
	}
	ref := &referee.Referee{Registry: registry, Player1: x1, Player2: x2}
	verdict, err := ref.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(verdict)
	return nil
}

func runSelfPlay(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	start := fs.String("start", cfg.Player.StartCity, "Opening city of player one")
	dir := fs.String("dir", "", "Directory for exchanging moves (default: temporary)")
	fs.Parse(args)

	reader, closeCities, err := openCities(ctx, cfg, cfg.Player.DataFile)
	if err != nil {
		return err
	}
	var cities []geography.City
	for {
		city, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			closeCities()
			return err
		}
		cities = append(cities, city)
	}
	closeCities()

	conf := match.SelfPlayConfig{Cities: cities, Opening: *start}
	if *dir != "" || cfg.Exchange.Kind == "redis" {
		connect, closer, err := connector(cfg, *dir)
		if err != nil {
			return err
		}
		defer closer()
		conf.Connect = connect
	}
	result, err := match.SelfPlay(ctx, conf)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", match.Player1Prefix, result.Player1)
	fmt.Printf("%s: %s\n", match.Player2Prefix, result.Player2)
	fmt.Println(result.Verdict)
	return nil
}

func runNext(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("next", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() == 0 {
		return fmt.Errorf("next needs at least one city")
	}
	game, err := loadGame(ctx, cfg, cfg.Player.DataFile)
	if err != nil {
		return err
	}
	for _, city := range fs.Args() {
		outcome := game.NextMove(city)
		fmt.Printf("%s -> %s\n", city, outcome)
		if outcome.Final() {
			break
		}
	}
	return nil
}

func runStats(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(args)
	game, err := loadGame(ctx, cfg, cfg.Player.DataFile)
	if err != nil {
		return err
	}
	stats := game.Stats()
	fmt.Printf("%s\n", game.Identifier)
	fmt.Printf("  cities:     %d\n", stats.Cities)
	fmt.Printf("  partitions: %d\n", stats.Partitions)
	fmt.Printf("  letters:    %d\n", stats.Letters)
	return nil
}

// --- Helpers ---------------------------------------------------------------

// openCities opens the dataset configured, reading from datafile for CSV
// datasets.
func openCities(ctx context.Context, cfg *config.Config, datafile string) (geography.CityReader, func(), error) {
	if cfg.Dataset.Source == "mysql" {
		db, err := citydb.Open(cfg.Dataset.DSN)
		if err != nil {
			return nil, nil, err
		}
		r, err := citydb.NewReader(ctx, db, cfg.Dataset.Query)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return r, func() { r.Close(); db.Close() }, nil
	}
	f, err := os.Open(datafile)
	if err != nil {
		return nil, nil, err
	}
	var opts []worldcities.Option
	if cfg.Latin1() {
		opts = append(opts, worldcities.Latin1())
	}
	return worldcities.NewReader(f, opts...), func() { f.Close() }, nil
}

func loadGame(ctx context.Context, cfg *config.Config, datafile string) (*geography.Game, error) {
	cities, closeCities, err := openCities(ctx, cfg, datafile)
	if err != nil {
		return nil, err
	}
	defer closeCities()
	return geography.LoadGame(datafile, cities)
}

// connector creates the exchanges of the configured kind. File exchanges
// live in the "play" sub-directory of gameDirectory.
func connector(cfg *config.Config, gameDirectory string) (match.Connector, func(), error) {
	opts := []exchange.Option{
		exchange.Interval(cfg.Read.Interval),
		exchange.Timeout(cfg.Read.Timeout),
	}
	if cfg.Exchange.Kind == "redis" {
		rc := cfg.Exchange.Redis
		client, err := exchange.Dial(rc.Addr, rc.DB)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, exchange.TTL(rc.TTL))
		return match.RedisConnector(client, rc.Namespace, opts...), func() { client.Close() }, nil
	}
	return match.FileConnector(config.PlayDirectory(gameDirectory), opts...), func() {}, nil
}
