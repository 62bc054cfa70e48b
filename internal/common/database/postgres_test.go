// internal/common/database/postgres_test.go
package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"poster-workers/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	client := &PostgresClient{DB: db}
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_ConnectionFailureIsRetryable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(fmt.Errorf("connection refused"))

	client := &PostgresClient{DB: db}
	pingErr := client.Ping(context.Background())
	require.Error(t, pingErr)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(pingErr, &stdErr))
	assert.Equal(t, errors.ErrCodeDatabaseConnectionFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
