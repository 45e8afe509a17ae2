package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aydjer/agrimarket/internal/models"
)

type CreateUserParams struct {
	Email        string
	PasswordHash string
	FullName     string
	Telephone    string
}

// UpdateUserParams: nil field means "leave unchanged"
type UpdateUserParams struct {
	Email     *string
	FullName  *string
	Telephone *string
}

type UserRepo interface {
	// Create user
	// If user with email exists already has to return apperrors.ErrEmailTaken
	Create(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)

	// Update profile fields, bumping updated_at
	Update(ctx context.Context, userID uuid.UUID, arg UpdateUserParams) (models.User, error)

	// Mark the user's email address as verified
	SetVerified(ctx context.Context, userID uuid.UUID) (models.User, error)

	// Replace the password hash
	SetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

type SessionRepo interface {
	Create(ctx context.Context, session models.Session) (models.Session, error)

	// Get session by id even if expired; expiry is the caller's check
	// If session not found must return apperrors.ErrSessionNotFound
	Get(ctx context.Context, sessionID uuid.UUID) (models.Session, error)

	// Move expires_at forward keeping the same session id
	ExtendExpiry(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) (models.Session, error)

	Delete(ctx context.Context, sessionID uuid.UUID) error

	// Delete every session the user owns, return how many were removed
	DeleteForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
}

type CodeRepo interface {
	Create(ctx context.Context, code models.VerificationCode) (models.VerificationCode, error)

	// Get code by id and type even if expired; expiry is the caller's check
	// If code not found must return apperrors.ErrCodeNotFound
	Get(ctx context.Context, codeID string, codeType models.CodeType) (models.VerificationCode, error)

	// Delete is a separate explicit step after successful use, so the
	// orchestrator can handle partial failures before consuming the code
	Delete(ctx context.Context, codeID string) error

	// Count codes of the given type issued to the user since the moment,
	// used for the password reset issuance window
	CountForUserSince(ctx context.Context, userID uuid.UUID, codeType models.CodeType, since time.Time) (int64, error)
}

type UpdateLandParams struct {
	Title       *string
	Description *string
	AreaHa      *decimal.Decimal
	Price       *decimal.Decimal
	Location    *string
}

type LandRepo interface {
	Create(ctx context.Context, land models.Land) (models.Land, error)
	Get(ctx context.Context, landID uuid.UUID) (models.Land, error)
	List(ctx context.Context) ([]models.Land, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Land, error)

	// Update and Delete match on both id and owner and must return
	// apperrors.ErrListingNotFound when the row is absent or owned by
	// someone else
	Update(ctx context.Context, landID, ownerID uuid.UUID, arg UpdateLandParams) (models.Land, error)
	Delete(ctx context.Context, landID, ownerID uuid.UUID) error
}

type UpdateEquipmentParams struct {
	Title       *string
	Description *string
	DailyRate   *decimal.Decimal
	Location    *string
}

type EquipmentRepo interface {
	Create(ctx context.Context, eq models.Equipment) (models.Equipment, error)
	Get(ctx context.Context, equipmentID uuid.UUID) (models.Equipment, error)
	List(ctx context.Context) ([]models.Equipment, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Equipment, error)
	Update(ctx context.Context, equipmentID, ownerID uuid.UUID, arg UpdateEquipmentParams) (models.Equipment, error)
	Delete(ctx context.Context, equipmentID, ownerID uuid.UUID) error
}

type UpdateProductParams struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int32
}

type ProductRepo interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, productID, ownerID uuid.UUID, arg UpdateProductParams) (models.Product, error)
	Delete(ctx context.Context, productID, ownerID uuid.UUID) error
}

type RentalRepo interface {
	Create(ctx context.Context, rental models.Rental) (models.Rental, error)

	// Count confirmed rentals of the equipment overlapping [startsOn, endsOn]
	CountOverlapping(ctx context.Context, equipmentID uuid.UUID, startsOn, endsOn time.Time) (int64, error)

	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]models.Rental, error)
	ListByEquipment(ctx context.Context, equipmentID uuid.UUID) ([]models.Rental, error)
}

type UpdatePostParams struct {
	Title      *string
	Content    *string
	CategoryID *uuid.UUID
	TagIDs     []uuid.UUID // nil means "leave unchanged", empty slice clears
}

type PostsFilter struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
}

type PostRepo interface {
	// Create stores the post and attaches the given tags
	Create(ctx context.Context, post models.Post, tagIDs []uuid.UUID) (models.Post, error)

	// Get returns the post with its tags loaded
	// If post not found must return apperrors.ErrPostNotFound
	Get(ctx context.Context, postID uuid.UUID) (models.Post, error)

	List(ctx context.Context, filter PostsFilter) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)

	Update(ctx context.Context, postID, authorID uuid.UUID, arg UpdatePostParams) (models.Post, error)
	Delete(ctx context.Context, postID, authorID uuid.UUID) error
}

type CategoryRepo interface {
	// Create must return apperrors.ErrCategoryTaken on duplicate name
	Create(ctx context.Context, name string) (models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type TagRepo interface {
	// Create must return apperrors.ErrTagTaken on duplicate name
	Create(ctx context.Context, name string) (models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
}

// Storage aggregates the repositories over one connection or transaction
type Storage interface {
	User() UserRepo
	Session() SessionRepo
	Code() CodeRepo
	Land() LandRepo
	Equipment() EquipmentRepo
	Product() ProductRepo
	Rental() RentalRepo
	Post() PostRepo
	Category() CategoryRepo
	Tag() TagRepo

	// InTx runs fn with a Storage bound to a single transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
