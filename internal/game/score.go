package game

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Score is either Unscored or Scored(value). The zero value is Unscored.
type Score struct {
	value  int
	scored bool
}

func Unscored() Score {
	return Score{}
}

func Scored(value int) Score {
	return Score{value: value, scored: true}
}

// Get returns the points and whether the score has been assigned.
func (s Score) Get() (int, bool) {
	return s.value, s.scored
}

func (s Score) IsScored() bool {
	return s.scored
}

func (s Score) String() string {
	if !s.scored {
		return "unscored"
	}
	return fmt.Sprintf("%d", s.value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.scored {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Unscored()
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = Scored(value)
	return nil
}

// Value implements driver.Valuer so a Score persists as a nullable integer.
func (s Score) Value() (driver.Value, error) {
	if !s.scored {
		return nil, nil
	}
	return int64(s.value), nil
}

func (s *Score) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Unscored()
	case int64:
		*s = Scored(int(v))
	case int32:
		*s = Scored(int(v))
	case int:
		*s = Scored(v)
	case []byte:
		var value int
		if _, err := fmt.Sscanf(string(v), "%d", &value); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}
		*s = Scored(value)
	default:
		return fmt.Errorf("scan score: unsupported type %T", src)
	}
	return nil
}

// ScoreInput is what a Scorer sees for one submission. Cards may be nil
// when they were removed from the catalog after the round was drawn.
type ScoreInput struct {
	DesignData    string
	ChallengeCard *ChallengeCard
	BonusCard     *BonusCard
}

type Scorer interface {
	Score(input ScoreInput) int
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(input ScoreInput) int

func (f ScorerFunc) Score(input ScoreInput) int {
	return f(input)
}

// StandardScorer sums a material-fit score, a creativity score and the
// challenge card's bonus points.
type StandardScorer struct {
	MaterialScore   int
	CreativityScore int
}

func (s StandardScorer) Score(input ScoreInput) int {
	total := s.MaterialScore + s.CreativityScore
	if input.ChallengeCard != nil && input.ChallengeCard.BonusPoints != nil {
		total += *input.ChallengeCard.BonusPoints
	}
	return total
}
