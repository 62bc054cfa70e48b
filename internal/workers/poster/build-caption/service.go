// internal/workers/poster/build-caption/service.go
package buildcaption

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poster-workers/internal/branding"
	"poster-workers/internal/caption"
	stderrors "poster-workers/internal/common/errors"
	"poster-workers/internal/common/logger"
	"poster-workers/internal/models"

	"github.com/lib/pq"
)

// Service resolves the vendor's catalogue selections and assembles the share
// caption. Sections the template does not support are dropped before the
// builder runs.
type Service struct {
	db       *sql.DB
	profiles branding.ProfileRepository
	logger   logger.Logger
}

func NewService(db *sql.DB, profiles branding.ProfileRepository, log logger.Logger) *Service {
	return &Service{
		db:       db,
		profiles: profiles,
		logger:   log,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := s.profiles.Get(ctx, input.VendorID)
	if err != nil {
		if errors.Is(err, branding.ErrProfileNotFound) {
			return nil, stderrors.NewProfileIncompleteError(input.VendorID)
		}
		return nil, stderrors.NewProfileStoreFailedError(err)
	}

	var products, services []models.CatalogueItem
	if input.Template.SupportsProducts {
		products, err = s.fetchItems(ctx, input.VendorID, models.KindProduct, input.Selection.SelectedProductIDs)
		if err != nil {
			return nil, stderrors.NewQueryExecutionError(err)
		}
	}
	if input.Template.SupportsServices {
		services, err = s.fetchItems(ctx, input.VendorID, models.KindService, input.Selection.SelectedServiceIDs)
		if err != nil {
			return nil, stderrors.NewQueryExecutionError(err)
		}
	}

	var offers []models.Offer
	if input.Template.SupportsOffers {
		offers, err = s.fetchOffers(ctx, input.VendorID, input.Selection.SelectedOfferIDs)
		if err != nil {
			return nil, stderrors.NewQueryExecutionError(err)
		}
	}

	text := caption.Build(caption.Input{
		Selection: &input.Selection,
		Branding:  profile,
		Template:  &input.Template,
		Products:  products,
		Services:  services,
		Offers:    offers,
	})

	return &Output{
		Caption:      text,
		ProductCount: len(products),
		ServiceCount: len(services),
		OfferCount:   len(offers),
	}, nil
}

// fetchItems loads the selected catalogue items and returns them in the order
// the vendor picked them, so truncation drops the last selections first.
func (s *Service) fetchItems(ctx context.Context, vendorID string, kind models.CatalogueKind, ids []string) ([]models.CatalogueItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, kind, name, price FROM catalogue_items
		WHERE vendor_id = $1 AND kind = $2 AND id = ANY($3)`
	rows, err := s.db.QueryContext(ctx, query, vendorID, string(kind), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query catalogue items: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.CatalogueItem, len(ids))
	for rows.Next() {
		var item models.CatalogueItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("scan catalogue item: %w", err)
		}
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalogue items: %w", err)
	}

	items := make([]models.CatalogueItem, 0, len(byID))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Service) fetchOffers(ctx context.Context, vendorID string, ids []string) ([]models.Offer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, code, discount_type, discount_value FROM offers
		WHERE vendor_id = $1 AND id = ANY($2)`
	rows, err := s.db.QueryContext(ctx, query, vendorID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.Offer, len(ids))
	for rows.Next() {
		var offer models.Offer
		if err := rows.Scan(&offer.ID, &offer.Code, &offer.DiscountType, &offer.DiscountValue); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		byID[offer.ID] = offer
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}

	offers := make([]models.Offer, 0, len(byID))
	for _, id := range ids {
		if offer, ok := byID[id]; ok {
			offers = append(offers, offer)
		}
	}
	return offers, nil
}
