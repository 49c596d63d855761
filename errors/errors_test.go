package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("foreign type %s: %d rules", "jint", 2)
	require.NotNil(t, err)
	assert.Equal(t, "foreign type jint: 2 rules", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsInvalidInputError(nil))
}

func TestSentinelHelpers(t *testing.T) {
	notFound := NewNotFoundError("host type %q", "Point")
	assert.True(t, IsNotFoundError(notFound))
	assert.False(t, IsInvalidInputError(notFound))
	assert.Contains(t, notFound.Error(), `host type "Point"`)

	invalid := NewInvalidInputError("direction %q", "sideways")
	assert.True(t, IsInvalidInputError(Wrap(invalid, "resolve")))
}

type markerErr struct{}

func (markerErr) Error() string { return "marker" }

func TestMark(t *testing.T) {
	base := New("duplicate")
	marked := Mark(base, ErrInvalidInput)
	assert.True(t, Is(marked, ErrInvalidInput))
	assert.Equal(t, "duplicate", marked.Error())

	var target markerErr
	assert.False(t, As(marked, &target))
}

func TestAssertionFailed(t *testing.T) {
	err := AssertionFailedf("index %d out of range", 7)
	assert.True(t, HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "index 7 out of range")
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("unknown host type"), "add it to the host section")
	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "add it to the host section", hints[0])
}

func ExampleWrap() {
	baseErr := New("no such file")
	err := Wrap(baseErr, "failed to read typemap")
	fmt.Println(err)
	// Output: failed to read typemap: no such file
}
