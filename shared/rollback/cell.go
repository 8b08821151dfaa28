package rollback

// Snapshot is a serialized game state.
type Snapshot struct {
	Frame    Frame
	Buffer   []byte
	Checksum uint16
}

// Cell holds at most one Snapshot. The scheduler owns cells; the simulation only
// writes into them on SaveRequest and reads them on LoadRequest.
type Cell struct {
	snap  Snapshot
	valid bool
}

func (c *Cell) Save(s Snapshot) {
	c.snap = s
	c.valid = true
}

// Load returns the stored snapshot, or false if nothing was saved yet.
func (c *Cell) Load() (Snapshot, bool) {
	return c.snap, c.valid
}

// Frame of the stored snapshot, NullFrame when empty.
func (c *Cell) Frame() Frame {
	if !c.valid {
		return NullFrame
	}
	return c.snap.Frame
}

func (c *Cell) Checksum() uint16 {
	return c.snap.Checksum
}

// savedStates is a fixed ring of cells indexed by frame % len. A slot is only
// returned for a frame when the snapshot it holds belongs to that frame.
type savedStates struct {
	cells []Cell
}

func newSavedStates(size int) *savedStates {
	return &savedStates{cells: make([]Cell, size)}
}

// slot returns the cell a SaveRequest for frame should write.
func (s *savedStates) slot(frame Frame) *Cell {
	return &s.cells[int(frame)%len(s.cells)]
}

// get returns the cell holding frame's snapshot.
func (s *savedStates) get(frame Frame) (*Cell, bool) {
	if frame < 0 {
		return nil, false
	}
	c := s.slot(frame)
	if c.Frame() != frame {
		return nil, false
	}
	return c, true
}
