package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/repository"
	"github.com/aydjer/agrimarket/internal/testutil"
)

func createUserParams(email string) repository.CreateUserParams {
	return repository.CreateUserParams{
		Email:        email,
		PasswordHash: "hashedpassword123",
		FullName:     "Farid Benali",
		Telephone:    "0551234567",
	}
}

func Test_UserRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create user ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			user, err := r.Create(t.Context(), createUserParams("farid@example.com"))

			require.NoError(t, err)
			assert.Equal(t, "farid@example.com", user.Email)
			assert.Equal(t, "hashedpassword123", user.HashedPassword)
			assert.Equal(t, "Farid Benali", user.FullName)
			assert.Equal(t, "0551234567", user.Telephone)
			assert.False(t, user.Verified, "new user must not be verified")
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user duplicate email fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			_, err := r.Create(t.Context(), createUserParams("taken@example.com"))
			require.NoError(t, err)

			_, err = r.Create(t.Context(), createUserParams("taken@example.com"))

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrEmailTaken, "should return well known error")
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.Create(t.Context(), createUserParams("findbyid@example.com"))
			require.NoError(t, err)

			got, err := r.GetByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Email, got.Email)
			assert.Equal(t, created.HashedPassword, got.HashedPassword)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			_, err := r.GetByID(t.Context(), uuid.New())

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
		})
	})

	t.Run("get user by email ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.Create(t.Context(), createUserParams("findbyemail@example.com"))
			require.NoError(t, err)

			got, err := r.GetByEmail(t.Context(), "findbyemail@example.com")

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
		})
	})

	t.Run("get user by email not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			_, err := r.GetByEmail(t.Context(), "nosuchuser@example.com")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("update profile fields", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.Create(t.Context(), createUserParams("update@example.com"))
			require.NoError(t, err)

			fullName := "Farid B."
			got, err := r.Update(t.Context(), created.ID, repository.UpdateUserParams{
				FullName: &fullName,
			})

			require.NoError(t, err)
			assert.Equal(t, "Farid B.", got.FullName)
			assert.Equal(t, created.Email, got.Email, "email should stay unchanged")
			assert.Equal(t, created.Telephone, got.Telephone, "telephone should stay unchanged")
		})
	})

	t.Run("update to taken email fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			_, err := r.Create(t.Context(), createUserParams("first@example.com"))
			require.NoError(t, err)
			second, err := r.Create(t.Context(), createUserParams("second@example.com"))
			require.NoError(t, err)

			email := "first@example.com"
			_, err = r.Update(t.Context(), second.ID, repository.UpdateUserParams{Email: &email})

			assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
		})
	})

	t.Run("set verified", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.Create(t.Context(), createUserParams("verify@example.com"))
			require.NoError(t, err)

			got, err := r.SetVerified(t.Context(), created.ID)

			require.NoError(t, err)
			assert.True(t, got.Verified)
		})
	})

	t.Run("set password", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.Create(t.Context(), createUserParams("password@example.com"))
			require.NoError(t, err)

			err = r.SetPassword(t.Context(), created.ID, "newhash456")
			require.NoError(t, err)

			got, err := r.GetByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, "newhash456", got.HashedPassword)
		})
	})
}
