package explain

import (
	"strconv"

	"github.com/okian/scholar/internal/domain/ranking"
)

type selectorKind uint8

const (
	byRank selectorKind = iota + 1
	byPosition
	byID
)

// Selector picks one row of a ranked table.
type Selector struct {
	kind     selectorKind
	rank     int
	position int
	id       string
}

// ByRank selects the row holding the 1-based rank.
func ByRank(rank int) Selector { return Selector{kind: byRank, rank: rank} }

// ByPosition selects the row at the zero-based input position.
func ByPosition(pos int) Selector { return Selector{kind: byPosition, position: pos} }

// ByID selects the first row, in rank order, labelled id.
func ByID(id string) Selector { return Selector{kind: byID, id: id} }

func (s Selector) matches(e ranking.Entry) bool {
	switch s.kind {
	case byRank:
		return e.Rank == s.rank
	case byPosition:
		return e.Position == s.position
	case byID:
		return s.id != "" && e.Applicant.ID == s.id
	default:
		return false
	}
}

func (s Selector) String() string {
	switch s.kind {
	case byRank:
		return "rank " + strconv.Itoa(s.rank)
	case byPosition:
		return "position " + strconv.Itoa(s.position)
	case byID:
		return "id " + strconv.Quote(s.id)
	default:
		return "empty selector"
	}
}
