package branding

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"poster-workers/internal/common/logger"
	"poster-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileColumns = []string{
	"business_name", "tagline", "phone", "website", "logo_ref", "logo_zoom",
	"logo_pos_x", "logo_pos_y", "primary_color", "default_layout",
}

func sampleProfile(vendorID string) *models.BrandingProfile {
	return &models.BrandingProfile{
		VendorID:      vendorID,
		BusinessName:  "Joe's Pizza",
		Tagline:       "Wood-fired since 2012",
		Phone:         "+91 9876543210",
		Website:       "joespizza.example",
		LogoRef:       "logo-ref",
		LogoZoom:      1.5,
		LogoPosition:  models.LogoPosition{X: 10, Y: -5},
		PrimaryColor:  "#7c3aed",
		DefaultLayout: models.LayoutModern,
	}
}

func TestSQLRepository_Get_CacheMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("branding:vendor-1").RedisNil()
	redisMock.MatchExpectationsInOrder(false)
	redisMock.Regexp().ExpectSet("branding:vendor-1", `.*`, 5*time.Minute).SetVal("OK")

	mock.ExpectQuery(`SELECT business_name, tagline, phone, website, logo_ref, logo_zoom`).
		WithArgs("vendor-1").
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow("Joe's Pizza", "Wood-fired since 2012", "+91 9876543210", "joespizza.example",
				"logo-ref", 1.5, 10.0, -5.0, "#7c3aed", "modern"))

	repo := NewSQLRepository(db, redisClient, logger.NewTestLogger(t))
	profile, err := repo.Get(context.Background(), "vendor-1")

	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza", profile.BusinessName)
	assert.Equal(t, models.LayoutModern, profile.DefaultLayout)
	assert.Equal(t, models.LogoPosition{X: 10, Y: -5}, profile.LogoPosition)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSQLRepository_Get_CacheHitSkipsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cached, err := json.Marshal(sampleProfile("vendor-1"))
	require.NoError(t, err)

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectGet("branding:vendor-1").SetVal(string(cached))

	repo := NewSQLRepository(db, redisClient, logger.NewTestLogger(t))
	profile, err := repo.Get(context.Background(), "vendor-1")

	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza", profile.BusinessName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT business_name`).
		WithArgs("vendor-none").
		WillReturnError(sql.ErrNoRows)

	repo := NewSQLRepository(db, nil, logger.NewTestLogger(t))
	_, err = repo.Get(context.Background(), "vendor-none")

	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestSQLRepository_Get_NilCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT business_name`).
		WithArgs("vendor-1").
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow("Joe's Pizza", "", "", "", "", 1.0, 0.0, 0.0, "", "classic"))

	repo := NewSQLRepository(db, nil, logger.NewTestLogger(t))
	profile, err := repo.Get(context.Background(), "vendor-1")

	require.NoError(t, err)
	assert.Equal(t, "Joe's Pizza", profile.BusinessName)
}

func TestSQLRepository_Put_UpsertsAndInvalidatesCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	profile := sampleProfile("vendor-1")

	mock.ExpectExec(`INSERT INTO branding_profiles`).
		WithArgs("vendor-1", profile.BusinessName, profile.Tagline, profile.Phone, profile.Website,
			profile.LogoRef, profile.LogoZoom, profile.LogoPosition.X, profile.LogoPosition.Y,
			profile.PrimaryColor, "modern").
		WillReturnResult(sqlmock.NewResult(0, 1))

	redisClient, redisMock := redismock.NewClientMock()
	redisMock.ExpectDel("branding:vendor-1").SetVal(1)

	repo := NewSQLRepository(db, redisClient, logger.NewTestLogger(t))
	err = repo.Put(context.Background(), "vendor-1", profile)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestSQLRepository_Put_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO branding_profiles`).
		WillReturnError(sql.ErrConnDone)

	repo := NewSQLRepository(db, nil, logger.NewTestLogger(t))
	err = repo.Put(context.Background(), "vendor-1", sampleProfile("vendor-1"))

	assert.Error(t, err)
}
