package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockUserRepository creates a GormUserRepository with a mocked SQL connection
func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormUserRepository(gormDB), mock, mockDB
}

func userRows(id uuid.UUID, username, displayName string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "username", "display_name", "active"}).
		AddRow(id, now, now, username, displayName, true)
}

func TestGormUserRepositoryFindByID(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(userRows(userID, "jdoe", "J. Doe"))

		user, err := repo.FindByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "jdoe", user.Username)
		assert.Equal(t, "J. Doe", user.DisplayName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), userID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepositoryFindByUsername(t *testing.T) {
	repo, mock, mockDB := newMockUserRepository(t)
	defer mockDB.Close()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("jdoe", 1).
		WillReturnRows(userRows(userID, "jdoe", "J. Doe"))

	user, err := repo.FindByUsername(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUserRepositoryFindByIDs(t *testing.T) {
	t.Run("empty input short-circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		users, err := repo.FindByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("queries by ID set", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		first := uuid.New()
		second := uuid.New()
		rows := userRows(first, "jdoe", "J. Doe").
			AddRow(second, time.Now(), time.Now(), "asmith", "A. Smith", true)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id IN \(\$1,\$2\)`).
			WithArgs(first, second).
			WillReturnRows(rows)

		users, err := repo.FindByIDs(context.Background(), []uuid.UUID{first, second})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
