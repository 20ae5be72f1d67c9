package monitoring

import (
	"sync"
	"time"

	"github.com/ndnapps/ndnapps/apps"
	"github.com/ndnapps/ndnapps/ndn"
	"github.com/ndnapps/ndnapps/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// DecrementInProgress removes in-progress elements. The count stops at zero.
func (b *ProgressBar) DecrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	if amount > b.InProgress {
		amount = b.InProgress
	}
	b.InProgress -= amount
}

// AdvanceTo raises the number of finished elements to n. It never lowers it.
func (b *ProgressBar) AdvanceTo(n uint64) {
	b.Lock()
	defer b.Unlock()

	if n > b.Finished {
		b.Finished = n
	}
}

// A HookableGenerator is a generator that reports its emissions with hooks.
type HookableGenerator interface {
	sim.Named
	sim.Hookable
}

// TrackGeneration shows the progress of a generator that stops after total
// items. The bar counts distinct sequence numbers, so resent items do not
// move it, and it is removed when the generator runs out of sequence numbers.
// Items marked for retransmission are in progress until they are sent again.
func (m *Monitor) TrackGeneration(
	g HookableGenerator,
	total uint64,
) *ProgressBar {
	bar := m.CreateProgressBar(g.Name(), total)
	g.AcceptHook(&generationProgressHook{
		monitor: m,
		bar:     bar,
		resends: make(map[uint32]bool),
	})

	return bar
}

type generationProgressHook struct {
	monitor *Monitor
	bar     *ProgressBar
	resends map[uint32]bool
}

func (h *generationProgressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case apps.HookPosItemSent:
		h.itemSent(ctx.Item)
	case apps.HookPosRetxMarked:
		seq := ctx.Item.(uint32)
		if !h.resends[seq] {
			h.resends[seq] = true
			h.bar.IncrementInProgress(1)
		}
	case apps.HookPosStopped:
		h.bar.DecrementInProgress(uint64(len(h.resends)))
		clear(h.resends)
	case apps.HookPosGenerationDone:
		h.monitor.CompleteProgressBar(h.bar)
	}
}

func (h *generationProgressHook) itemSent(item any) {
	switch item := item.(type) {
	case *ndn.Interest:
		if h.resends[item.Seq] {
			delete(h.resends, item.Seq)
			h.bar.DecrementInProgress(1)
		}

		h.bar.AdvanceTo(uint64(item.Seq) + 1)
	case *ndn.Data:
		h.bar.AdvanceTo(uint64(item.Seq) + 1)
	}
}
