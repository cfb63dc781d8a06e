// Package config holds the tracker CLI's named reverb presets, resolved
// straight to render.ReverbOptions since rendering here is offline and
// one-shot rather than a streaming live-mix path.
package config

import (
	"fmt"

	"github.com/beatforge/trackerengine/render"
)

// ReverbFromFlag turns a named preset into render.ReverbOptions, or nil
// for "none".
func ReverbFromFlag(preset string) (*render.ReverbOptions, error) {
	switch preset {
	case "none", "":
		return nil, nil
	case "light":
		return &render.ReverbOptions{Decay: 0.2, DelayMs: 150}, nil
	case "medium":
		return &render.ReverbOptions{Decay: 0.3, DelayMs: 250}, nil
	case "silly":
		return &render.ReverbOptions{Decay: 0.5, DelayMs: 2500}, nil
	default:
		return nil, fmt.Errorf("unrecognized reverb preset %q", preset)
	}
}
