package render

import (
	"fmt"

	theme "github.com/goliatone/go-theme"
)

// Fragment selects how much of the builder a renderer emits.
type Fragment string

const (
	// FragmentPage renders the palette, the drop zone and the dialog.
	FragmentPage Fragment = "page"
	// FragmentPreview renders only the drop zone with the form preview.
	FragmentPreview Fragment = "preview"
)

// ParseFragment validates a fragment name; empty means FragmentPage.
func ParseFragment(raw string) (Fragment, error) {
	switch Fragment(raw) {
	case "", FragmentPage:
		return FragmentPage, nil
	case FragmentPreview:
		return FragmentPreview, nil
	default:
		return "", fmt.Errorf("render: unknown fragment %q", raw)
	}
}

// RenderOptions describe per-request data renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	Fragment Fragment
	// Theme carries the resolved go-theme selection (tokens, partials and
	// asset resolver). Renderers fall back to built-in styling when nil.
	Theme *theme.RendererConfig
	// AssetsPrefix is the URL path the embedded assets are served from.
	AssetsPrefix string
}
