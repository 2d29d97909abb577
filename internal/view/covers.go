package view

import "time"

// CoverInterval is how often the round artwork changes
const CoverInterval = 3 * time.Second

// Covers is the artwork cycled while a round is playing
var Covers = []string{
	"covers/cover1.svg",
	"covers/cover2.svg",
	"covers/cover3.svg",
	"covers/cover4.svg",
	"covers/cover5.svg",
}

// CoverAt returns the cover for a rotation index, wrapping around
func CoverAt(idx int) string {
	n := len(Covers)
	return Covers[((idx%n)+n)%n]
}
