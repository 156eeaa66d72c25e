package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfer(t *testing.T) {
	t.Run("should classify nil as text", func(t *testing.T) {
		assert.Equal(t, TypeText, Infer(nil))
	})

	t.Run("should classify a UUID string as uuid", func(t *testing.T) {
		assert.Equal(t, TypeUUID, Infer("a81bc81b-dead-4e5d-abff-90865d1e13b1"))
		assert.Equal(t, TypeUUID, Infer("A81BC81B-DEAD-4E5D-ABFF-90865D1E13B1"))
	})

	t.Run("should classify timestamp strings as timestamp", func(t *testing.T) {
		assert.Equal(t, TypeTimestamp, Infer("2024-03-01T18:30:00Z"))
		assert.Equal(t, TypeTimestamp, Infer("2024-03-01T18:30:00.123456Z"))
		assert.Equal(t, TypeTimestamp, Infer("2024-03-01 18:30:00"))
		assert.Equal(t, TypeTimestamp, Infer("2024-03-01"))
	})

	t.Run("should classify integral numbers as integer", func(t *testing.T) {
		assert.Equal(t, TypeInteger, Infer(float64(42)))
		assert.Equal(t, TypeInteger, Infer(float64(0)))
		assert.Equal(t, TypeInteger, Infer(float64(-7)))
	})

	t.Run("should classify fractional numbers as numeric", func(t *testing.T) {
		assert.Equal(t, TypeNumeric, Infer(3.14))
		assert.Equal(t, TypeNumeric, Infer(-0.5))
	})

	t.Run("should classify booleans as boolean", func(t *testing.T) {
		assert.Equal(t, TypeBoolean, Infer(true))
		assert.Equal(t, TypeBoolean, Infer(false))
	})

	t.Run("should classify time.Time as timestamp", func(t *testing.T) {
		assert.Equal(t, TypeTimestamp, Infer(time.Now()))
	})

	t.Run("should fall back to text for everything else", func(t *testing.T) {
		assert.Equal(t, TypeText, Infer("Maria Silva"))
		assert.Equal(t, TypeText, Infer("(11) 91234-5678"))
		assert.Equal(t, TypeText, Infer([]any{"a", "b"}))
		assert.Equal(t, TypeText, Infer(map[string]any{"a": 1}))
	})

	t.Run("should not mistake a non-UUID hex string for uuid", func(t *testing.T) {
		assert.Equal(t, TypeText, Infer("a81bc81bdead4e5dabff90865d1e13b1"))
		assert.Equal(t, TypeText, Infer("zzzzzzzz-dead-4e5d-abff-90865d1e13b1"))
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Run("should parse RFC3339", func(t *testing.T) {
		got, ok := ParseTimestamp("2024-03-01T18:30:00Z")
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC), got)
	})

	t.Run("should reject a non-date string", func(t *testing.T) {
		_, ok := ParseTimestamp("not a date")
		assert.False(t, ok)
	})
}
