package tracing

import (
	"github.com/ndnapps/ndnapps/apps"
	"github.com/ndnapps/ndnapps/face"
	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/reliability"
	"github.com/ndnapps/ndnapps/sim"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	sim.Named
	sim.Hookable
}

var posKinds = map[*sim.HookPos]string{
	apps.HookPosItemSent:       KindSent,
	apps.HookPosRetxMarked:     KindRetx,
	apps.HookPosGenerationDone: KindDone,
	face.HookPosMsgDropped:     KindDropped,
	face.HookPosMsgDelivered:   KindDelivered,
	face.HookPosMsgReceived:    KindReceived,
	reliability.HookPosTimeout: KindTimeout,
}

// RecordFromHookCtx converts a hook context into a record. It returns false
// if the hook position does not describe a packet.
func RecordFromHookCtx(ctx sim.HookCtx) (Record, bool) {
	kind, ok := posKinds[ctx.Pos]
	if !ok {
		return Record{}, false
	}

	r := Record{
		Time: ctx.Now,
		Kind: kind,
	}

	if named, ok := ctx.Domain.(sim.Named); ok {
		r.Where = named.Name()
	}

	switch item := ctx.Item.(type) {
	case uint32:
		r.Seq = item
	case sim.Msg:
		fillFromMsg(&r, item)
	}

	return r, true
}

func fillFromMsg(r *Record, msg sim.Msg) {
	meta := msg.Meta()
	r.MsgID = meta.ID
	r.Class = meta.TrafficClass
	r.Bytes = meta.TrafficBytes

	switch m := msg.(type) {
	case *ndn.Interest:
		r.Name = m.Name.String()
		r.Seq = m.Seq
		r.Tag = m.Identity
	case *ndn.Data:
		r.Name = m.Name.String()
		r.Seq = m.Seq
		r.Tag = m.EmergencyInd
	}
}
