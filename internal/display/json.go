package display

import (
	"encoding/json"
	"io"

	"github.com/mcoot/musikspil/internal/view"
)

// Event names shared by the JSON painter and the display mirror
const (
	EventView         = "view"
	EventCountdown    = "countdown"
	EventCover        = "cover"
	EventConnectivity = "connectivity"
)

// Envelope is one JSON line written by the JSON painter
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// JSON paints every update as one JSON object per line
type JSON struct {
	enc *json.Encoder
}

// Ensure JSON implements Painter
var _ Painter = (*JSON)(nil)

// NewJSON creates a JSON painter writing to w
func NewJSON(w io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(w)}
}

func (j *JSON) Paint(vm view.ViewModel) {
	j.write(EventView, vm)
}

func (j *JSON) PaintCountdown(text string) {
	j.write(EventCountdown, text)
}

func (j *JSON) PaintCover(cover string) {
	j.write(EventCover, cover)
}

func (j *JSON) PaintConnectivity(online bool) {
	j.write(EventConnectivity, map[string]bool{"online": online})
}

func (j *JSON) write(event string, data any) {
	_ = j.enc.Encode(Envelope{Event: event, Data: data})
}
