package dtos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceRecord_Lookup(t *testing.T) {
	rec := SourceRecord{Fields: map[string]interface{}{
		"Email":   "exact@x.com",
		"COMPANY": "Upper",
		"company": "Lower",
		"Phone":   nil,
	}}

	t.Run("exact key wins", func(t *testing.T) {
		v, ok := rec.Lookup("Email")
		assert.True(t, ok)
		assert.Equal(t, "exact@x.com", v)
	})

	t.Run("case-insensitive fallback", func(t *testing.T) {
		v, ok := rec.Lookup("EMAIL")
		assert.True(t, ok)
		assert.Equal(t, "exact@x.com", v)
	})

	t.Run("ambiguous keys resolve to the smallest key every time", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			v, ok := rec.Lookup("Company")
			assert.True(t, ok)
			assert.Equal(t, "Upper", v)
		}
	})

	t.Run("nil value is reported as present", func(t *testing.T) {
		v, ok := rec.Lookup("phone")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("missing field", func(t *testing.T) {
		_, ok := SourceRecord{}.Lookup("Email")
		assert.False(t, ok)
	})
}
