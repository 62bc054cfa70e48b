package branding

import (
	"testing"

	"poster-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoEditor_StateMachine(t *testing.T) {
	e := NewLogoEditor()
	assert.Equal(t, StateEmpty, e.State())

	// Interactions before an image is loaded are no-ops.
	e.SetZoom(2.0)
	e.Drag(10, 10)
	assert.Equal(t, 1.0, e.Zoom())
	assert.Equal(t, models.LogoPosition{}, e.Position())

	_, err := e.Commit()
	assert.ErrorIs(t, err, ErrNoImage)

	e.SetImage("data:image/png;base64,abc")
	assert.Equal(t, StateEditing, e.State())

	transform, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,abc", transform.LogoRef)
	assert.Equal(t, 1.0, transform.LogoZoom)
}

func TestLogoEditor_SetImageResetsTransform(t *testing.T) {
	e := NewLogoEditor()
	e.SetImage("logo-1")
	e.SetZoom(2.5)
	e.Drag(30, -40)

	e.SetImage("logo-2")
	assert.Equal(t, 1.0, e.Zoom())
	assert.Equal(t, models.LogoPosition{}, e.Position())
}

func TestLogoEditor_ZoomClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "below minimum", in: 0.1, want: MinZoom},
		{name: "at minimum", in: 0.5, want: 0.5},
		{name: "within range", in: 1.7, want: 1.7},
		{name: "at maximum", in: 3.0, want: 3.0},
		{name: "above maximum", in: 12.0, want: MaxZoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewLogoEditor()
			e.SetImage("logo")
			e.SetZoom(tt.in)
			assert.Equal(t, tt.want, e.Zoom())
		})
	}
}

func TestLogoEditor_DragClampsToZoomScaledRange(t *testing.T) {
	e := NewLogoEditor()
	e.SetImage("logo")

	e.Drag(1000, -1000)
	assert.Equal(t, PanRange, e.Position().X)
	assert.Equal(t, -PanRange, e.Position().Y)

	// A larger zoom widens the pan bound.
	e.SetZoom(2.0)
	e.Drag(1000, -1000)
	assert.Equal(t, PanRange*2, e.Position().X)
	assert.Equal(t, -PanRange*2, e.Position().Y)
}

func TestLogoEditor_ZoomOutReclampsPosition(t *testing.T) {
	e := NewLogoEditor()
	e.SetImage("logo")
	e.SetZoom(3.0)
	e.Drag(150, 150)
	assert.Equal(t, 150.0, e.Position().X)

	// Shrinking the zoom shrinks the bound; the position follows.
	e.SetZoom(1.0)
	assert.Equal(t, PanRange, e.Position().X)
	assert.Equal(t, PanRange, e.Position().Y)
}

func TestLogoEditor_DragAccumulates(t *testing.T) {
	e := NewLogoEditor()
	e.SetImage("logo")

	e.Drag(10, 5)
	e.Drag(-4, 5)
	assert.Equal(t, models.LogoPosition{X: 6, Y: 10}, e.Position())
}

func TestNewLogoEditorFrom(t *testing.T) {
	t.Run("profile with logo reopens in editing state", func(t *testing.T) {
		e := NewLogoEditorFrom(&models.BrandingProfile{
			LogoRef:      "logo-ref",
			LogoZoom:     2.0,
			LogoPosition: models.LogoPosition{X: 20, Y: -10},
		})
		assert.Equal(t, StateEditing, e.State())
		assert.Equal(t, 2.0, e.Zoom())
		assert.Equal(t, models.LogoPosition{X: 20, Y: -10}, e.Position())
	})

	t.Run("stored values outside bounds are clamped on open", func(t *testing.T) {
		e := NewLogoEditorFrom(&models.BrandingProfile{
			LogoRef:      "logo-ref",
			LogoZoom:     9.0,
			LogoPosition: models.LogoPosition{X: 999, Y: -999},
		})
		assert.Equal(t, MaxZoom, e.Zoom())
		assert.Equal(t, PanRange*MaxZoom, e.Position().X)
		assert.Equal(t, -PanRange*MaxZoom, e.Position().Y)
	})

	t.Run("profile without logo yields empty editor", func(t *testing.T) {
		e := NewLogoEditorFrom(&models.BrandingProfile{})
		assert.Equal(t, StateEmpty, e.State())
	})

	t.Run("nil profile yields empty editor", func(t *testing.T) {
		e := NewLogoEditorFrom(nil)
		assert.Equal(t, StateEmpty, e.State())
	})
}

func TestLogoEditor_CommitLeavesStateIntact(t *testing.T) {
	e := NewLogoEditor()
	e.SetImage("logo")
	e.SetZoom(1.5)
	e.Drag(12, 8)

	first, err := e.Commit()
	require.NoError(t, err)
	second, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, StateEditing, e.State())
}
