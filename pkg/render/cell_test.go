package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

func col(name string, typ schema.Type) schema.Descriptor {
	return schema.Descriptor{Name: name, Type: typ, Label: schema.FormatLabel(name)}
}

func TestRenderCell(t *testing.T) {
	t.Run("should render nil as the muted placeholder regardless of column", func(t *testing.T) {
		for _, descriptor := range []schema.Descriptor{
			col("email", schema.TypeText),
			col("whatsapp", schema.TypeText),
			col("created_at", schema.TypeTimestamp),
		} {
			cell := RenderCell(nil, descriptor)
			assert.Equal(t, KindPlaceholder, cell.Kind)
			assert.Equal(t, "-", cell.Text)
			assert.True(t, cell.Muted)
			assert.Empty(t, cell.Href)
		}
	})

	t.Run("should render phone columns as wa.me links with digits only", func(t *testing.T) {
		cell := RenderCell("(11) 91234-5678", col("whatsapp", schema.TypeText))
		assert.Equal(t, KindLink, cell.Kind)
		assert.Equal(t, "(11) 91234-5678", cell.Text)
		assert.Equal(t, "https://wa.me/5511912345678", cell.Href)
	})

	t.Run("should match phone columns by name fragment, case-insensitive", func(t *testing.T) {
		for _, name := range []string{"telefone", "Telefone_celular", "PHONE", "whatsapp_number"} {
			cell := RenderCell("11 98765-4321", col(name, schema.TypeText))
			assert.Equal(t, KindLink, cell.Kind, name)
			assert.Equal(t, "https://wa.me/5511987654321", cell.Href, name)
		}
	})

	t.Run("should format timestamps as day/month hour:minute", func(t *testing.T) {
		cell := RenderCell("2024-03-01T18:30:00Z", col("created_at", schema.TypeTimestamp))
		assert.Equal(t, KindText, cell.Kind)
		assert.Equal(t, "01/03 18:30", cell.Text)
		assert.True(t, cell.Muted)
	})

	t.Run("should apply timestamp formatting to created_at even when typed text", func(t *testing.T) {
		cell := RenderCell("2024-12-25 09:05:00", col("created_at", schema.TypeText))
		assert.Equal(t, "25/12 09:05", cell.Text)
	})

	t.Run("should keep the raw string when a timestamp does not parse", func(t *testing.T) {
		cell := RenderCell("soon", col("updated", schema.TypeTimestamp))
		assert.Equal(t, KindText, cell.Kind)
		assert.Equal(t, "soon", cell.Text)
	})

	t.Run("should render campaign-like columns as primary badges", func(t *testing.T) {
		for _, name := range []string{"campanha", "campaign_id", "categoria", "status"} {
			cell := RenderCell("black-friday", col(name, schema.TypeText))
			assert.Equal(t, KindBadge, cell.Kind, name)
			assert.Equal(t, "primary", cell.Variant, name)
		}
	})

	t.Run("should render product-like columns as small neutral badges", func(t *testing.T) {
		for _, name := range []string{"produto", "product", "interesse", "interest"} {
			cell := RenderCell("Plano Pro", col(name, schema.TypeText))
			assert.Equal(t, KindBadge, cell.Kind, name)
			assert.Equal(t, "neutral", cell.Variant, name)
			assert.Equal(t, "sm", cell.Size, name)
		}
	})

	t.Run("should render email columns as mailto links", func(t *testing.T) {
		cell := RenderCell("maria@example.com", col("email", schema.TypeText))
		assert.Equal(t, KindLink, cell.Kind)
		assert.Equal(t, "mailto:maria@example.com", cell.Href)
		assert.Equal(t, "maria@example.com", cell.Text)
	})

	t.Run("should emphasize name columns", func(t *testing.T) {
		for _, name := range []string{"nome", "name", "nome_completo"} {
			cell := RenderCell("Maria Silva", col(name, schema.TypeText))
			assert.Equal(t, KindText, cell.Kind, name)
			assert.True(t, cell.Emphasis, name)
		}
	})

	t.Run("should fall back to plain text", func(t *testing.T) {
		cell := RenderCell("anything", col("observacao", schema.TypeText))
		assert.Equal(t, Cell{Kind: KindText, Text: "anything"}, cell)
	})

	t.Run("should stringify non-string values in the fallback", func(t *testing.T) {
		cell := RenderCell(float64(42), col("idade", schema.TypeInteger))
		assert.Equal(t, "42", cell.Text)
	})

	t.Run("should pick the first matching rule when fragments overlap", func(t *testing.T) {
		// "nome_do_produto" matches both the product and name rules; product
		// sits higher in the rule table.
		cell := RenderCell("Plano Pro", col("nome_do_produto", schema.TypeText))
		assert.Equal(t, KindBadge, cell.Kind)
		assert.Equal(t, "neutral", cell.Variant)
	})
}
