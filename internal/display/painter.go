package display

import (
	"github.com/mcoot/musikspil/internal/view"
)

// Painter draws view models onto some output
type Painter interface {
	// Paint draws a full screen
	Paint(vm view.ViewModel)
	// PaintCountdown updates only the round clock line
	PaintCountdown(text string)
	// PaintCover updates only the round artwork
	PaintCover(cover string)
	// PaintConnectivity updates only the online indicator
	PaintConnectivity(online bool)
}

// Multi paints to several painters in order
type Multi []Painter

// Ensure Multi implements Painter
var _ Painter = Multi(nil)

func (m Multi) Paint(vm view.ViewModel) {
	for _, p := range m {
		p.Paint(vm)
	}
}

func (m Multi) PaintCountdown(text string) {
	for _, p := range m {
		p.PaintCountdown(text)
	}
}

func (m Multi) PaintCover(cover string) {
	for _, p := range m {
		p.PaintCover(cover)
	}
}

func (m Multi) PaintConnectivity(online bool) {
	for _, p := range m {
		p.PaintConnectivity(online)
	}
}
