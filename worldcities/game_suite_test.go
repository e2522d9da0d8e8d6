package worldcities

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/geography"
	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

type GameSuite struct {
	game *geography.Game
}

var _ = Suite(&GameSuite{})

func (s *GameSuite) SetUpTest(c *C) {
	f, err := os.Open(filepath.Join("testdata", "world-cities.csv"))
	c.Assert(err, IsNil)
	defer f.Close()
	s.game, err = LoadGame("world-cities", f)
	c.Assert(err, IsNil)
	c.Assert(s.game, Not(IsNil))
}

func (s *GameSuite) TestScarceLetterAnswersFirst(c *C) {
	out := s.game.NextMove("Paris")
	c.Assert(out.Kind, Equals, geography.Move)
	c.Assert(out.City.Name, Equals, "sydney")
	c.Assert(out.City.Country, Equals, "Australia")
}

func (s *GameSuite) TestChain(c *C) {
	chain := []struct{ opponent, response string }{
		{"paris", "sydney"},
		{"yokohama", "amsterdam"},
	}
	for _, m := range chain {
		out := s.game.NextMove(m.opponent)
		c.Assert(out.Kind, Equals, geography.Move)
		c.Assert(out.String(), Equals, m.response)
	}
	c.Assert(s.game.Stats().Moves, Equals, 2)
	c.Assert(s.game.Stats().Cities, Equals, 22-4)
}

func (s *GameSuite) TestDuplicateNames(c *C) {
	out := s.game.NextMove("springfield")
	c.Assert(out.City.Name, Equals, "dakar")
	out = s.game.NextMove("springfield")
	c.Assert(out.City.Name, Equals, "dublin")
	out = s.game.NextMove("springfield")
	c.Assert(out.Kind, Equals, geography.Win)
	c.Assert(errors.Is(out.Err, geography.ErrInvalidMove), Equals, true)
	c.Assert(s.game.Over(), Equals, true)
}

func (s *GameSuite) TestUnicodeNames(c *C) {
	c.Assert(s.game.Lookup("ZÜRICH"), Equals, true)
	c.Assert(s.game.Consume("zürich"), Equals, true)
	c.Assert(s.game.Lookup("zürich"), Equals, false)
}
