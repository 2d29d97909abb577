package testutil

import (
	"sync"

	"github.com/mcoot/musikspil/internal/view"
)

// RecordingPainter records everything painted to it.
// Safe for concurrent use.
type RecordingPainter struct {
	mu           sync.Mutex
	views        []view.ViewModel
	countdowns   []string
	covers       []string
	connectivity []bool
}

// NewRecordingPainter creates an empty RecordingPainter
func NewRecordingPainter() *RecordingPainter {
	return &RecordingPainter{}
}

func (p *RecordingPainter) Paint(vm view.ViewModel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, vm)
}

func (p *RecordingPainter) PaintCountdown(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.countdowns = append(p.countdowns, text)
}

func (p *RecordingPainter) PaintCover(cover string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.covers = append(p.covers, cover)
}

func (p *RecordingPainter) PaintConnectivity(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connectivity = append(p.connectivity, online)
}

// Views returns every painted view model
func (p *RecordingPainter) Views() []view.ViewModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]view.ViewModel(nil), p.views...)
}

// Last returns the most recent view model, or the zero value
func (p *RecordingPainter) Last() view.ViewModel {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.views) == 0 {
		return view.ViewModel{}
	}
	return p.views[len(p.views)-1]
}

// Countdowns returns every painted countdown line
func (p *RecordingPainter) Countdowns() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.countdowns...)
}

// Covers returns every painted cover
func (p *RecordingPainter) Covers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.covers...)
}

// Connectivity returns every painted connectivity change
func (p *RecordingPainter) Connectivity() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.connectivity...)
}
