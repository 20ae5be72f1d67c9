package apps

import (
	"log"

	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/sim"
)

// ItemLogger is a hook that prints the activities of the generators.
type ItemLogger struct {
	sim.LogHookBase
}

// NewItemLogger creates a new ItemLogger that writes to the logger.
func NewItemLogger(logger *log.Logger) *ItemLogger {
	h := new(ItemLogger)
	h.Logger = logger

	return h
}

// Func writes one line for each sent item, retransmission mark, and the end
// of generation.
func (h *ItemLogger) Func(ctx sim.HookCtx) {
	name := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case HookPosItemSent:
		h.logItem(ctx, name)
	case HookPosRetxMarked:
		h.Printf("%.10f, %s, retransmit %d", ctx.Now, name, ctx.Item)
	case HookPosGenerationDone:
		h.Printf("%.10f, %s, generation done", ctx.Now, name)
	}
}

func (h *ItemLogger) logItem(ctx sim.HookCtx, name string) {
	switch item := ctx.Item.(type) {
	case *ndn.Interest:
		h.Printf("%.10f, %s, > Interest for %d from %s",
			ctx.Now, name, item.Seq, item.Identity)
	case *ndn.Data:
		h.Printf("%.10f, %s, > Data %s [%s]",
			ctx.Now, name, item.Name, item.EmergencyInd)
	}
}
