package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gobusters/ectolinq"

	"github.com/GabrielASF2/lead-cental/pkg/schema"
)

// Lead is the legacy fixed-shape lead record. New code should work
// against schema.Row directly; this adapter exists for clients that
// still expect the original column set.
type Lead struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	WhatsApp  string `json:"whatsapp"`
	Interest  string `json:"interesse"`
	Product   string `json:"produto"`
	Campaign  string `json:"campanha"`
}

var (
	nameAliases     = []string{"nome", "name"}
	phoneAliases    = []string{"whatsapp", "telefone", "phone"}
	interestAliases = []string{"interesse", "interest"}
	productAliases  = []string{"produto", "product"}
	campaignAliases = []string{"campanha", "campaign"}
)

// LeadFromRow maps a dynamic row onto the legacy lead shape. Column
// matching is case-insensitive and tolerant of the English aliases the
// dashboard recognizes.
func LeadFromRow(row schema.Row) Lead {
	lead := Lead{}
	for _, key := range row.Keys() {
		text := stringValue(row.Value(key))
		name := strings.ToLower(key)
		switch {
		case name == "id":
			lead.ID = text
		case name == "created_at":
			lead.CreatedAt = text
		case name == "email":
			lead.Email = text
		case ectolinq.Contains(nameAliases, name):
			lead.Name = text
		case ectolinq.Contains(phoneAliases, name):
			lead.WhatsApp = text
		case ectolinq.Contains(interestAliases, name):
			lead.Interest = text
		case ectolinq.Contains(productAliases, name):
			lead.Product = text
		case ectolinq.Contains(campaignAliases, name):
			lead.Campaign = text
		}
	}
	return lead
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
