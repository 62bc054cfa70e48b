package branding

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poster-workers/internal/common/logger"
	"poster-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrProfileNotFound is returned when a vendor has no branding profile yet.
var ErrProfileNotFound = errors.New("branding profile not found")

const cacheTTL = 5 * time.Minute

// ProfileRepository persists branding profiles per vendor. Profiles are
// overwritten on edit and never deleted automatically.
type ProfileRepository interface {
	Get(ctx context.Context, vendorID string) (*models.BrandingProfile, error)
	Put(ctx context.Context, vendorID string, profile *models.BrandingProfile) error
}

// SQLRepository is the Postgres-backed repository with a Redis read cache.
// The cache client may be nil (tests, preview tooling).
type SQLRepository struct {
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
}

func NewSQLRepository(db *sql.DB, cache *redis.Client, log logger.Logger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "branding-repository"}),
	}
}

func cacheKey(vendorID string) string {
	return "branding:" + vendorID
}

func (r *SQLRepository) Get(ctx context.Context, vendorID string) (*models.BrandingProfile, error) {
	if r.cache != nil {
		if val, err := r.cache.Get(ctx, cacheKey(vendorID)).Result(); err == nil {
			var profile models.BrandingProfile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	var profile models.BrandingProfile
	profile.VendorID = vendorID

	query := `SELECT business_name, tagline, phone, website, logo_ref, logo_zoom,
		logo_pos_x, logo_pos_y, primary_color, default_layout
		FROM branding_profiles WHERE vendor_id = $1`
	err := r.db.QueryRowContext(ctx, query, vendorID).Scan(
		&profile.BusinessName, &profile.Tagline, &profile.Phone, &profile.Website,
		&profile.LogoRef, &profile.LogoZoom,
		&profile.LogoPosition.X, &profile.LogoPosition.Y,
		&profile.PrimaryColor, &profile.DefaultLayout,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query branding profile: %w", err)
	}

	if r.cache != nil {
		if data, err := json.Marshal(&profile); err == nil {
			if err := r.cache.Set(ctx, cacheKey(vendorID), data, cacheTTL).Err(); err != nil {
				r.logger.Warn("branding cache write failed", map[string]interface{}{
					"vendorId": vendorID,
					"error":    err.Error(),
				})
			}
		}
	}

	return &profile, nil
}

func (r *SQLRepository) Put(ctx context.Context, vendorID string, profile *models.BrandingProfile) error {
	query := `INSERT INTO branding_profiles
		(vendor_id, business_name, tagline, phone, website, logo_ref, logo_zoom,
		 logo_pos_x, logo_pos_y, primary_color, default_layout, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (vendor_id) DO UPDATE SET
		 business_name = EXCLUDED.business_name,
		 tagline = EXCLUDED.tagline,
		 phone = EXCLUDED.phone,
		 website = EXCLUDED.website,
		 logo_ref = EXCLUDED.logo_ref,
		 logo_zoom = EXCLUDED.logo_zoom,
		 logo_pos_x = EXCLUDED.logo_pos_x,
		 logo_pos_y = EXCLUDED.logo_pos_y,
		 primary_color = EXCLUDED.primary_color,
		 default_layout = EXCLUDED.default_layout,
		 updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		vendorID, profile.BusinessName, profile.Tagline, profile.Phone, profile.Website,
		profile.LogoRef, profile.LogoZoom,
		profile.LogoPosition.X, profile.LogoPosition.Y,
		profile.PrimaryColor, string(profile.DefaultLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert branding profile: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Del(ctx, cacheKey(vendorID)).Err(); err != nil {
			r.logger.Warn("branding cache invalidation failed", map[string]interface{}{
				"vendorId": vendorID,
				"error":    err.Error(),
			})
		}
	}

	return nil
}
