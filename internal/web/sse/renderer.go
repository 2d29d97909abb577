package sse

import (
	"bytes"
	"context"

	"github.com/a-h/templ"

	"github.com/mcoot/musikspil/internal/view"
	"github.com/mcoot/musikspil/internal/web/templates/components"
)

// Renderer converts painted state to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderView renders the swappable screen fragment
func (r *Renderer) RenderView(ctx context.Context, vm view.ViewModel, countdown string) (string, error) {
	return render(ctx, components.View(vm, countdown))
}

// RenderCountdown renders the round clock line
func (r *Renderer) RenderCountdown(ctx context.Context, text string) (string, error) {
	return render(ctx, components.Countdown(text))
}

// RenderCover renders the round artwork
func (r *Renderer) RenderCover(ctx context.Context, src string) (string, error) {
	return render(ctx, components.Cover(src))
}

// RenderConnectivity renders the online indicator
func (r *Renderer) RenderConnectivity(ctx context.Context, online bool) (string, error) {
	return render(ctx, components.Connectivity(online))
}

func render(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
