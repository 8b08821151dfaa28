package components

import (
	"time"

	"github.com/yohamta/donburi"
)

// NetStatusData is what the network overlay shows.
type NetStatusData struct {
	Visible     bool
	Online      bool
	Frame       int32
	FramesAhead int
	Stalls      int
	Ping        time.Duration
	Desyncs     int
	Message     string // last notable session event
}

var NetStatus = donburi.NewComponentType[NetStatusData]()
