// Package board models the static race track: numbered cells with typed
// effects and portal links. The board is immutable after construction;
// movement resolution is a pure function.
package board

import "fmt"

// CellKind identifies the intrinsic effect of a cell.
type CellKind uint8

const (
	Empty CellKind = iota
	Start
	Red
	Green
	Shop
	ChestGood
	ChestBad
	RuleDraw
	Portal
	Mine
	Tornado
	Duel
	Bicycle
	FortuneCube
	FortunateSetup
	Tribute
	OhNo
	FinishSafe
)

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Start:
		return "start"
	case Red:
		return "red"
	case Green:
		return "green"
	case Shop:
		return "shop"
	case ChestGood:
		return "chest_good"
	case ChestBad:
		return "chest_bad"
	case RuleDraw:
		return "rule_draw"
	case Portal:
		return "portal"
	case Mine:
		return "mine"
	case Tornado:
		return "tornado"
	case Duel:
		return "duel"
	case Bicycle:
		return "bicycle"
	case FortuneCube:
		return "fortune_cube"
	case FortunateSetup:
		return "fortunate_setup"
	case Tribute:
		return "tribute"
	case OhNo:
		return "oh_no"
	case FinishSafe:
		return "finish_safe"
	default:
		return "unknown"
	}
}

// Cell is one addressable position on the track. PortalTarget is -1 for
// non-portal cells.
type Cell struct {
	ID           int
	Kind         CellKind
	Name         string
	PortalTarget int
}

// Board holds the ordered cell map. Cell ids are contiguous 0..MaxCellID,
// id 0 is Start and MaxCellID is the unique finish cell.
type Board struct {
	cells     []Cell
	maxCellID int
}

// New builds a board from a contiguous cell list. It fails on malformed
// track definitions; a bad board is unrecoverable configuration.
func New(cells []Cell) (*Board, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("board: no cells")
	}
	for i, c := range cells {
		if c.ID != i {
			return nil, fmt.Errorf("board: cell ids not contiguous: index %d has id %d", i, c.ID)
		}
		if c.Kind == Portal {
			if c.PortalTarget < 0 || c.PortalTarget >= len(cells) {
				return nil, fmt.Errorf("board: portal %d targets out-of-range cell %d", c.ID, c.PortalTarget)
			}
		} else if c.PortalTarget != -1 {
			return nil, fmt.Errorf("board: non-portal cell %d has portal target %d", c.ID, c.PortalTarget)
		}
	}
	if cells[0].Kind != Start {
		return nil, fmt.Errorf("board: cell 0 must be start, got %s", cells[0].Kind)
	}
	if cells[len(cells)-1].Kind != FinishSafe {
		return nil, fmt.Errorf("board: last cell must be finish_safe, got %s", cells[len(cells)-1].Kind)
	}
	return &Board{cells: cells, maxCellID: len(cells) - 1}, nil
}

// MaxCellID returns the id of the finish cell.
func (b *Board) MaxCellID() int { return b.maxCellID }

// Cell returns the cell with the given id.
func (b *Board) Cell(id int) (Cell, error) {
	if id < 0 || id > b.maxCellID {
		return Cell{}, fmt.Errorf("board: cell %d not found", id)
	}
	return b.cells[id], nil
}

// MustCell is Cell for ids already known to be in range (i.e. produced by
// ResolveMove). It panics on out-of-range ids.
func (b *Board) MustCell(id int) Cell {
	c, err := b.Cell(id)
	if err != nil {
		panic(err)
	}
	return c
}

// ResolveMove computes the destination of a signed move. Backward moves
// clamp to Start; overshooting clamps to the finish cell. No wraparound.
func (b *Board) ResolveMove(start, steps int) int {
	target := start + steps
	if target < 0 {
		return 0
	}
	if target >= b.maxCellID {
		return b.maxCellID
	}
	return target
}
