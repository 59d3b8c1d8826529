package proficiency

import (
	"errors"
	"fmt"
	"strings"
)

// Level is an ordered proficiency tier. The zero value is Desired.
type Level int

const (
	Desired Level = iota
	Novice
	Experienced
	Expert
	Specialist
)

var ErrInvalidLevel = errors.New("invalid proficiency level")

type tier struct {
	name  string
	score int64
	upper int64
}

// tiers is the single source for the level <-> score mapping. upper is the
// inclusive top of the bucket whose canonical score is score.
var tiers = [...]tier{
	Desired:     {name: "Desired", score: 0, upper: 70},
	Novice:      {name: "Novice", score: 100, upper: 170},
	Experienced: {name: "Experienced", score: 200, upper: 270},
	Expert:      {name: "Expert", score: 300, upper: 370},
	Specialist:  {name: "Specialist", score: 400, upper: 470},
}

func All() []Level {
	out := make([]Level, 0, len(tiers))
	for i := range tiers {
		out = append(out, Level(i))
	}
	return out
}

func (l Level) Valid() bool {
	return l >= Desired && l <= Specialist
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return tiers[l].name
}

// ScoreOf returns the canonical score of l. Invalid levels score as Desired.
func ScoreOf(l Level) int64 {
	if !l.Valid() {
		return tiers[Desired].score
	}
	return tiers[l].score
}

// LevelOf maps an aggregate score to its bucket. Scores outside [0, 470]
// fall back to Desired so consensus stays total.
func LevelOf(score int64) Level {
	if score < 0 {
		return Desired
	}
	for i, t := range tiers {
		if score <= t.upper {
			return Level(i)
		}
	}
	return Desired
}

func StepUp(l Level) Level {
	if !l.Valid() || l == Specialist {
		return Specialist
	}
	return l + 1
}

func StepDown(l Level) Level {
	if !l.Valid() || l == Desired {
		return Desired
	}
	return l - 1
}

func (l Level) Compare(o Level) int {
	switch {
	case l < o:
		return -1
	case l > o:
		return 1
	default:
		return 0
	}
}

func (l Level) Less(o Level) bool { return l < o }

// AtLeast reports whether l satisfies a minimum of floor.
func (l Level) AtLeast(floor Level) bool { return l >= floor }

func Parse(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for i, t := range tiers {
		if strings.EqualFold(t.name, s) {
			return Level(i), nil
		}
	}
	return Desired, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(tiers[l].name), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
