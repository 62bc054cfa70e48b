// Package branding holds the vendor branding profile, its repository, and the
// logo capture/transform editor.
package branding

import (
	"errors"

	"poster-workers/internal/models"
)

// EditorState names the logo editor's two states.
type EditorState string

const (
	StateEmpty   EditorState = "empty"
	StateEditing EditorState = "editing"
)

// Logo zoom and pan bounds. The pan range scales with zoom so the image can
// never leave the circular mask fully empty.
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	PanRange = 50.0
)

var ErrNoImage = errors.New("no logo image loaded")

// LogoTransform is what Commit hands back to the branding form. The editor
// never persists; merging into the profile and calling the repository is the
// caller's job.
type LogoTransform struct {
	LogoRef      string
	LogoZoom     float64
	LogoPosition models.LogoPosition
}

// LogoEditor is the pure in-memory pan/zoom state machine behind the logo
// cropper. Empty -> Editing on SetImage; SetZoom and Drag keep it in Editing.
type LogoEditor struct {
	state    EditorState
	logoRef  string
	zoom     float64
	position models.LogoPosition
}

// NewLogoEditor starts an editor with no image loaded.
func NewLogoEditor() *LogoEditor {
	return &LogoEditor{
		state: StateEmpty,
		zoom:  1,
	}
}

// NewLogoEditorFrom reopens the editor seeded with previously committed
// values. A profile without a logo yields an empty editor.
func NewLogoEditorFrom(profile *models.BrandingProfile) *LogoEditor {
	if profile == nil || profile.LogoRef == "" {
		return NewLogoEditor()
	}
	e := &LogoEditor{
		state:    StateEditing,
		logoRef:  profile.LogoRef,
		zoom:     clamp(profile.LogoZoom, MinZoom, MaxZoom),
		position: profile.LogoPosition,
	}
	e.clampPosition()
	return e
}

// State returns the current editor state.
func (e *LogoEditor) State() EditorState {
	return e.state
}

// SetImage loads a new logo image and resets the transform.
func (e *LogoEditor) SetImage(logoRef string) {
	e.state = StateEditing
	e.logoRef = logoRef
	e.zoom = 1
	e.position = models.LogoPosition{}
}

// SetZoom clamps the zoom factor into [MinZoom, MaxZoom]. The position is
// re-clamped because its bound depends on the zoom.
func (e *LogoEditor) SetZoom(z float64) {
	if e.state != StateEditing {
		return
	}
	e.zoom = clamp(z, MinZoom, MaxZoom)
	e.clampPosition()
}

// Zoom returns the current zoom factor.
func (e *LogoEditor) Zoom() float64 {
	return e.zoom
}

// Drag moves the image by (dx, dy), keeping each axis within ±PanRange·zoom.
func (e *LogoEditor) Drag(dx, dy float64) {
	if e.state != StateEditing {
		return
	}
	e.position.X += dx
	e.position.Y += dy
	e.clampPosition()
}

// Position returns the current pan offset.
func (e *LogoEditor) Position() models.LogoPosition {
	return e.position
}

// Commit returns the transform triple for the caller to merge into the
// branding profile. The editor state is unchanged and may be reused.
func (e *LogoEditor) Commit() (LogoTransform, error) {
	if e.state != StateEditing {
		return LogoTransform{}, ErrNoImage
	}
	return LogoTransform{
		LogoRef:      e.logoRef,
		LogoZoom:     e.zoom,
		LogoPosition: e.position,
	}, nil
}

func (e *LogoEditor) clampPosition() {
	bound := PanRange * e.zoom
	e.position.X = clamp(e.position.X, -bound, bound)
	e.position.Y = clamp(e.position.Y, -bound, bound)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
