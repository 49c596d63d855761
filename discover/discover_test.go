package discover

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/typemap"
)

func has(findings []Finding, typ, capability string) bool {
	for _, f := range findings {
		if f.Type == typ && f.Capability == capability {
			return true
		}
	}
	return false
}

func TestDiscover_StandardLibrary(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	findings, err := Discover(context.Background(), Options{
		Patterns:     []string{"bytes"},
		Capabilities: []string{"io.Writer", "fmt.Stringer", "comparable"},
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.True(t, has(findings, "*bytes.Buffer", "Writer"))
	assert.False(t, has(findings, "bytes.Buffer", "Writer"))
	assert.True(t, has(findings, "*bytes.Buffer", "Stringer"))
	assert.True(t, has(findings, "*bytes.Reader", "comparable"))

	// io and fmt were only loaded for lookup
	for _, f := range findings {
		assert.NotContains(t, f.Type, "io.")
		assert.NotContains(t, f.Type, "fmt.")
	}

	tm := typemap.New(zap.NewNop().Sugar())
	require.NoError(t, Apply(tm, findings))
	buf, ok := tm.Hosts().Lookup("*bytes.Buffer")
	require.True(t, ok)
	assert.True(t, tm.Hosts().Satisfies(buf, typemap.Require("io.Writer")))
	plain, ok := tm.Hosts().Lookup("bytes.Buffer")
	if ok {
		assert.False(t, tm.Hosts().Satisfies(plain, typemap.Require("io.Writer")))
	}
}

func TestDiscover_Relative(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages with the go command")
	}
	findings, err := Discover(context.Background(), Options{
		Patterns:     []string{"bytes"},
		Capabilities: []string{"error"},
		Relative:     true,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	// no type in bytes is an error, but nothing should be qualified either
	for _, f := range findings {
		assert.NotContains(t, f.Type, "bytes.")
	}
}

func TestDiscover_BadInput(t *testing.T) {
	_, err := Discover(context.Background(), Options{}, nil)
	assert.True(t, errors.IsInvalidInputError(err))

	if testing.Short() {
		return
	}
	_, err = Discover(context.Background(), Options{
		Patterns:     []string{"bytes"},
		Capabilities: []string{"Writer"},
	}, nil)
	assert.True(t, errors.IsInvalidInputError(err))

	_, err = Discover(context.Background(), Options{
		Patterns:     []string{"bytes"},
		Capabilities: []string{"io.Nope"},
	}, nil)
	assert.True(t, errors.IsNotFoundError(err))
}
