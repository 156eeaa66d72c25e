package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLabel(t *testing.T) {
	t.Run("should replace underscores and capitalize words", func(t *testing.T) {
		assert.Equal(t, "Created At", FormatLabel("created_at"))
		assert.Equal(t, "Nome Completo", FormatLabel("nome_completo"))
	})

	t.Run("should capitalize a single word", func(t *testing.T) {
		assert.Equal(t, "Email", FormatLabel("email"))
	})

	t.Run("should leave inner casing untouched", func(t *testing.T) {
		assert.Equal(t, "UTMSource", FormatLabel("uTMSource"))
		assert.Equal(t, "Lead STATUS", FormatLabel("lead_STATUS"))
	})

	t.Run("should handle empty and degenerate names", func(t *testing.T) {
		assert.Equal(t, "", FormatLabel(""))
		assert.Equal(t, " ", FormatLabel("_"))
		assert.Equal(t, "A B", FormatLabel("a_b"))
	})

	t.Run("should keep digits as word starts", func(t *testing.T) {
		assert.Equal(t, "2nd Phone", FormatLabel("2nd_phone"))
	})
}
