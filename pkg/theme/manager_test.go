package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/storage"
)

type failingStore struct{ storage.MemoryStore }

func (*failingStore) Set(context.Context, string, string) error {
	return assert.AnError
}

func TestParseBrightness(t *testing.T) {
	b, err := ParseBrightness(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, BrightnessDark, b)
	assert.Equal(t, BrightnessLight, b.Opposite())

	_, err = ParseBrightness("sepia")
	assert.Error(t, err)
}

func TestReadsStoredThemeOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, DefaultKey, "dark"))

	m := NewManager(ctx, Options{Store: store})
	assert.Equal(t, BrightnessDark, m.Current())

	// Later writes by someone else are not picked up.
	require.NoError(t, store.Set(ctx, DefaultKey, "light"))
	assert.Equal(t, BrightnessDark, m.Current())
}

func TestFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	rec := errors.NewRecorder()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "custom", "purple"))

	m := NewManager(ctx, Options{Store: store, Key: "custom", Default: BrightnessDark, Errors: rec})
	assert.Equal(t, BrightnessDark, m.Current())
	assert.Len(t, rec.DiagnosticsWithCode(errors.CodeInvalidAttribute), 1)

	assert.Equal(t, BrightnessLight, NewManager(ctx, Options{}).Current())
}

func TestToggleWritesAndNotifies(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	doc := dom.NewDocument()
	m := NewManager(ctx, Options{Store: store})
	m.Attach(doc.Root())

	v, _ := doc.Root().Attribute("data-theme")
	assert.Equal(t, "light", v)

	var seen []Brightness
	unsubscribe := m.Subscribe(func(b Brightness) { seen = append(seen, b) })

	next, err := m.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, BrightnessDark, next)

	stored, ok, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", stored)
	v, _ = doc.Root().Attribute("data-theme")
	assert.Equal(t, "dark", v)

	require.NoError(t, m.Set(ctx, BrightnessDark))
	unsubscribe()
	_, _ = m.Toggle(ctx)
	assert.Equal(t, []Brightness{BrightnessDark}, seen)
}

func TestSetSurvivesStorageFailure(t *testing.T) {
	ctx := context.Background()
	rec := errors.NewRecorder()
	m := NewManager(ctx, Options{Store: &failingStore{}, Errors: rec})

	err := m.Set(ctx, BrightnessDark)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, BrightnessDark, m.Current())
	assert.Len(t, rec.Errors(), 1)

	assert.Error(t, m.Set(ctx, "sepia"))
}
