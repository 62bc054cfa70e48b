// Package caption assembles the plain-text share caption for a customized
// poster. Section order and truncation thresholds are contractual; tests pin
// the exact wording.
package caption

import (
	"fmt"
	"strconv"
	"strings"

	"poster-workers/internal/models"
)

// PlatformTrailer is the fixed closing line, always last.
const PlatformTrailer = "✨ Powered by Postermint"

// Truncation thresholds per section.
const (
	MaxProducts = 5
	MaxServices = 5
	MaxOffers   = 3
)

// Input carries the customize-session state with catalogue selections already
// resolved to items.
type Input struct {
	Selection *models.ShareSelection
	Branding  *models.BrandingProfile
	Template  *models.Template
	Products  []models.CatalogueItem
	Services  []models.CatalogueItem
	Offers    []models.Offer
}

// Build produces the caption. Sections appear in fixed order and are omitted
// entirely when their source data is empty. The trailer is always present.
func Build(in Input) string {
	var sections []string

	// 1. Custom text, falling back to the template title.
	headline := ""
	if in.Selection != nil {
		headline = strings.TrimSpace(in.Selection.CustomText)
	}
	if headline == "" && in.Template != nil {
		headline = in.Template.Title
	}
	if headline != "" {
		sections = append(sections, headline)
	}

	// 2. Business identity block.
	if in.Branding != nil && in.Branding.BusinessName != "" {
		lines := []string{"📢 " + in.Branding.BusinessName}
		if in.Branding.Phone != "" {
			lines = append(lines, "📞 "+in.Branding.Phone)
		}
		if in.Branding.Website != "" {
			lines = append(lines, "🌐 "+in.Branding.Website)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	// 3. Featured products, 4. services, 5. offers.
	if s := itemSection("🛍️ Featured Products:", in.Products, MaxProducts); s != "" {
		sections = append(sections, s)
	}
	if s := itemSection("💼 Services:", in.Services, MaxServices); s != "" {
		sections = append(sections, s)
	}
	if s := offerSection(in.Offers); s != "" {
		sections = append(sections, s)
	}

	// 6. Call to action.
	if in.Branding != nil && in.Branding.Website != "" {
		sections = append(sections, "👉 Visit: "+in.Branding.Website)
	}

	// 7. Platform trailer, always last.
	sections = append(sections, PlatformTrailer)

	return strings.Join(sections, "\n\n")
}

func itemSection(header string, items []models.CatalogueItem, max int) string {
	if len(items) == 0 {
		return ""
	}
	lines := []string{header}
	for i, item := range items {
		if i == max {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s - ₹%s", item.Name, formatAmount(item.Price)))
	}
	if extra := len(items) - max; extra > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", extra))
	}
	return strings.Join(lines, "\n")
}

func offerSection(offers []models.Offer) string {
	if len(offers) == 0 {
		return ""
	}
	lines := []string{"🎁 Special Offers:"}
	for i, offer := range offers {
		if i == MaxOffers {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s - %s", offer.Code, formatDiscount(offer)))
	}
	if extra := len(offers) - MaxOffers; extra > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", extra))
	}
	return strings.Join(lines, "\n")
}

func formatDiscount(offer models.Offer) string {
	switch offer.DiscountType {
	case models.DiscountPercentage:
		return formatAmount(offer.DiscountValue) + "% OFF"
	case models.DiscountFixed:
		return "₹" + formatAmount(offer.DiscountValue) + " OFF"
	}
	return formatAmount(offer.DiscountValue) + " OFF"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
