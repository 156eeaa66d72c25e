package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

func TestLeadFromRow(t *testing.T) {
	t.Run("should map the original portuguese column names", func(t *testing.T) {
		row := schema.NewRow(
			"id", "lead-1",
			"created_at", "2024-03-01T18:30:00Z",
			"nome", "Maria",
			"email", "maria@example.com",
			"whatsapp", "(11) 91234-5678",
			"interesse", "consultoria",
			"produto", "plano pro",
			"campanha", "instagram",
		)

		lead := LeadFromRow(row)
		assert.Equal(t, "lead-1", lead.ID)
		assert.Equal(t, "2024-03-01T18:30:00Z", lead.CreatedAt)
		assert.Equal(t, "Maria", lead.Name)
		assert.Equal(t, "maria@example.com", lead.Email)
		assert.Equal(t, "(11) 91234-5678", lead.WhatsApp)
		assert.Equal(t, "consultoria", lead.Interest)
		assert.Equal(t, "plano pro", lead.Product)
		assert.Equal(t, "instagram", lead.Campaign)
	})

	t.Run("should accept the english aliases", func(t *testing.T) {
		row := schema.NewRow(
			"name", "Ana",
			"phone", "11999998888",
			"interest", "demo",
			"product", "starter",
			"campaign", "google",
		)

		lead := LeadFromRow(row)
		assert.Equal(t, "Ana", lead.Name)
		assert.Equal(t, "11999998888", lead.WhatsApp)
		assert.Equal(t, "demo", lead.Interest)
		assert.Equal(t, "starter", lead.Product)
		assert.Equal(t, "google", lead.Campaign)
	})

	t.Run("should match column names case-insensitively", func(t *testing.T) {
		row := schema.NewRow("Nome", "Maria", "EMAIL", "maria@example.com", "Telefone", "1191234")

		lead := LeadFromRow(row)
		assert.Equal(t, "Maria", lead.Name)
		assert.Equal(t, "maria@example.com", lead.Email)
		assert.Equal(t, "1191234", lead.WhatsApp)
	})

	t.Run("should ignore columns outside the legacy shape", func(t *testing.T) {
		row := schema.NewRow("nome", "Maria", "utm_source", "newsletter", "score", float64(42))

		lead := LeadFromRow(row)
		assert.Equal(t, "Maria", lead.Name)
		assert.Equal(t, Lead{Name: "Maria"}, lead)
	})

	t.Run("should stringify non-string values", func(t *testing.T) {
		row := schema.NewRow("nome", float64(42), "interesse", true, "email", nil)

		lead := LeadFromRow(row)
		assert.Equal(t, "42", lead.Name)
		assert.Equal(t, "true", lead.Interest)
		assert.Equal(t, "", lead.Email)
	})
}
