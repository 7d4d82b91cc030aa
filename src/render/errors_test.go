package render

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrPanic(t *testing.T) {
	called := 0
	require.NotPanics(t, func() { OrPanic(nil, func() { called++ }) })
	assert.Equal(t, 0, called)

	require.Panics(t, func() { OrPanic(errors.New("boom"), func() { called++ }) })
	assert.Equal(t, 1, called)
}

func TestCheckError(t *testing.T) {
	run := func(v interface{}) (err error) {
		defer CheckError(&err)
		panic(v)
	}

	err := run(ErrFormatChanged)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormatChanged))

	err = run("not an error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an error")
}

func TestParseBindingPolicy(t *testing.T) {
	tests := map[string]BindingPolicy{
		"":               BindPerFrameSlot,
		"per-frame-slot": BindPerFrameSlot,
		" Per-Image ":    BindPerImage,
	}
	for in, want := range tests {
		got, err := ParseBindingPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBindingPolicy("per-thread")
	require.Error(t, err)
	assert.Equal(t, "per-image", BindPerImage.String())
}

func TestExtent(t *testing.T) {
	assert.True(t, Extent{Width: 0, Height: 600}.IsZero())
	assert.True(t, Extent{Width: 800, Height: 0}.IsZero())
	assert.False(t, Extent{Width: 1, Height: 1}.IsZero())
	assert.Equal(t, float32(0), Extent{Width: 800}.AspectRatio())
	assert.Equal(t, float32(2), Extent{Width: 800, Height: 400}.AspectRatio())
	assert.Equal(t, "800x600", Extent{Width: 800, Height: 600}.String())
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	newRig(t, 3)
	assert.Contains(t, buf.String(), "swapchain created")
	assert.Contains(t, buf.String(), "extent=800x600")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
