package apps

import (
	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/sim"
)

// HookPosItemSent marks when a generator hands an item to its transport. The
// item is the sent message.
var HookPosItemSent = &sim.HookPos{Name: "ItemSent"}

// HookPosRetxMarked marks when a requester accepts a retransmission mark. The
// item is the sequence number.
var HookPosRetxMarked = &sim.HookPos{Name: "RetxMarked"}

// HookPosGenerationDone marks when a generator runs out of sequence numbers.
var HookPosGenerationDone = &sim.HookPos{Name: "GenerationDone"}

// HookPosStopped marks when a started generator is stopped. Everything it
// sent before is forgotten.
var HookPosStopped = &sim.HookPos{Name: "Stopped"}

// A Transport delivers items to the network. It does not report whether the
// item arrives.
type Transport interface {
	Send(msg sim.Msg)
}

// A Signer attaches a signature to outgoing Data.
type Signer interface {
	Sign(d *ndn.Data)
}
