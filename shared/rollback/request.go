package rollback

// Request is one instruction for the simulation: SaveRequest, LoadRequest or
// AdvanceRequest.
type Request interface {
	isRequest()
}

// SaveRequest asks the simulation to store its state for Frame into Cell.
type SaveRequest struct {
	Frame Frame
	Cell  *Cell
}

// LoadRequest asks the simulation to replace its state with the one in Cell.
type LoadRequest struct {
	Frame Frame
	Cell  *Cell
}

// AdvanceRequest asks the simulation to run one tick with the given encoded
// inputs, indexed by player.
type AdvanceRequest struct {
	Inputs [NumPlayers][]byte
}

func (SaveRequest) isRequest()    {}
func (LoadRequest) isRequest()    {}
func (AdvanceRequest) isRequest() {}
