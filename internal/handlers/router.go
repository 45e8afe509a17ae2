package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aydjer/agrimarket/internal/handlers/middleware"
	"github.com/aydjer/agrimarket/internal/handlers/render"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
	"github.com/aydjer/agrimarket/internal/service/auth"
	"github.com/aydjer/agrimarket/internal/service/blog"
	"github.com/aydjer/agrimarket/internal/service/market"
	"github.com/aydjer/agrimarket/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	marketService marketService,
	blogService blogService,
	cookies *auth.CookieManager,
	l logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(authService, cookies, l))
	api.Handle("POST /auth/login", handleLogin(authService, cookies, l))
	api.Handle("GET /auth/refresh", handleTokenRefresh(authService, cookies, l))
	api.Handle("GET /auth/logout", handleLogout(authService, cookies))
	api.Handle("GET /auth/email/verify/{code}", handleVerifyEmail(authService, l))
	api.Handle("POST /auth/password/forgot", handleForgotPassword(authService, l))
	api.Handle("POST /auth/password/reset", handleResetPassword(authService, cookies, l))

	api.Handle("GET /user/{userID}", handleUserProfile(userService, l))
	api.Handle("GET /me", withAuth(handleUserMe(userService, l)))
	api.Handle("PATCH /me", withAuth(handleUpdateMe(userService, l)))
	api.Handle("GET /me/sessions", withAuth(handleListSessions(authService, l)))
	api.Handle("DELETE /me/sessions/{id}", withAuth(handleDeleteSession(authService, l)))

	api.Handle("GET /lands", handleListLands(marketService, l))
	api.Handle("GET /lands/{id}", handleGetLand(marketService, l))
	api.Handle("GET /my/lands", withAuth(handleListOwnLands(marketService, l)))
	api.Handle("POST /my/lands", withAuth(handleCreateLand(marketService, l)))
	api.Handle("PATCH /my/lands/{id}", withAuth(handleUpdateLand(marketService, l)))
	api.Handle("DELETE /my/lands/{id}", withAuth(handleDeleteLand(marketService, l)))

	api.Handle("GET /equipment", handleListEquipment(marketService, l))
	api.Handle("GET /equipment/{id}", handleGetEquipment(marketService, l))
	api.Handle("GET /my/equipment", withAuth(handleListOwnEquipment(marketService, l)))
	api.Handle("POST /my/equipment", withAuth(handleCreateEquipment(marketService, l)))
	api.Handle("PATCH /my/equipment/{id}", withAuth(handleUpdateEquipment(marketService, l)))
	api.Handle("DELETE /my/equipment/{id}", withAuth(handleDeleteEquipment(marketService, l)))
	api.Handle("POST /equipment/{id}/rent", withAuth(handleRentEquipment(marketService, l)))
	api.Handle("GET /equipment/{id}/rentals", withAuth(handleListEquipmentRentals(marketService, l)))
	api.Handle("GET /my/rentals", withAuth(handleListOwnRentals(marketService, l)))

	api.Handle("GET /products", handleListProducts(marketService, l))
	api.Handle("GET /products/{id}", handleGetProduct(marketService, l))
	api.Handle("GET /my/products", withAuth(handleListOwnProducts(marketService, l)))
	api.Handle("POST /my/products", withAuth(handleCreateProduct(marketService, l)))
	api.Handle("PATCH /my/products/{id}", withAuth(handleUpdateProduct(marketService, l)))
	api.Handle("DELETE /my/products/{id}", withAuth(handleDeleteProduct(marketService, l)))

	api.Handle("GET /posts", handleListPosts(blogService, l))
	api.Handle("GET /posts/{id}", handleGetPost(blogService, l))
	api.Handle("GET /my/posts", withAuth(handleListOwnPosts(blogService, l)))
	api.Handle("POST /my/posts", withAuth(handleCreatePost(blogService, l)))
	api.Handle("PATCH /my/posts/{id}", withAuth(handleUpdatePost(blogService, l)))
	api.Handle("DELETE /my/posts/{id}", withAuth(handleDeletePost(blogService, l)))

	api.Handle("GET /categories", handleListCategories(blogService, l))
	api.Handle("POST /categories", withAuth(handleCreateCategory(blogService, l)))
	api.Handle("GET /tags", handleListTags(blogService, l))
	api.Handle("POST /tags", withAuth(handleCreateTag(blogService, l)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, map[string]string{"status": "ok"})
	})

	handler := chain(root,
		middleware.LoggerMiddleware(l),
	)

	return handler
}

type authService interface {
	// Register creates the user, emails the verification link and starts a
	// session. Has to return apperrors.ErrEmailTaken on a duplicate email.
	Register(ctx context.Context, arg auth.RegisterParams) (models.User, models.TokenPair, error)

	// Login has to return auth.ErrInvalidCredentials both for an unknown
	// email and for a wrong password.
	Login(ctx context.Context, email, password, userAgent string) (models.TokenPair, error)

	// Refresh reissues the access token. The second value is non-nil only
	// when the session was extended and a new refresh token must be set.
	Refresh(ctx context.Context, refreshRaw string) (models.IssuedToken, *models.IssuedToken, error)

	// Logout drops the session referenced by the access token, best effort
	Logout(ctx context.Context, accessRaw string)

	VerifyEmail(ctx context.Context, codeID string) (models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, codeID, newPassword string) error

	AuthenticateAccess(accessRaw string) (userID, sessionID uuid.UUID, err error)

	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

type userService interface {
	Get(ctx context.Context, userID uuid.UUID) (models.User, error)
	Update(ctx context.Context, userID uuid.UUID, arg user.UpdateParams) (models.User, error)
}

type marketService interface {
	CreateLand(ctx context.Context, ownerID uuid.UUID, arg market.LandParams) (models.Land, error)
	GetLand(ctx context.Context, landID uuid.UUID) (models.Land, error)
	ListLands(ctx context.Context) ([]models.Land, error)
	ListOwnLands(ctx context.Context, ownerID uuid.UUID) ([]models.Land, error)
	UpdateLand(ctx context.Context, landID, ownerID uuid.UUID, arg repository.UpdateLandParams) (models.Land, error)
	DeleteLand(ctx context.Context, landID, ownerID uuid.UUID) error

	CreateEquipment(ctx context.Context, ownerID uuid.UUID, arg market.EquipmentParams) (models.Equipment, error)
	GetEquipment(ctx context.Context, equipmentID uuid.UUID) (models.Equipment, error)
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	ListOwnEquipment(ctx context.Context, ownerID uuid.UUID) ([]models.Equipment, error)
	UpdateEquipment(ctx context.Context, equipmentID, ownerID uuid.UUID, arg repository.UpdateEquipmentParams) (models.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID, ownerID uuid.UUID) error

	// RentEquipment books the equipment for [startsOn, endsOn]. Has to
	// return apperrors.ErrRentalConflict when the range overlaps a
	// confirmed rental.
	RentEquipment(ctx context.Context, renterID, equipmentID uuid.UUID, startsOn, endsOn time.Time) (models.Rental, error)
	ListOwnRentals(ctx context.Context, renterID uuid.UUID) ([]models.Rental, error)
	ListEquipmentRentals(ctx context.Context, equipmentID, ownerID uuid.UUID) ([]models.Rental, error)

	CreateProduct(ctx context.Context, ownerID uuid.UUID, arg market.ProductParams) (models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListOwnProducts(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error)
	UpdateProduct(ctx context.Context, productID, ownerID uuid.UUID, arg repository.UpdateProductParams) (models.Product, error)
	DeleteProduct(ctx context.Context, productID, ownerID uuid.UUID) error
}

type blogService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, arg blog.PostParams) (models.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (models.Post, error)
	ListPosts(ctx context.Context, filter repository.PostsFilter) ([]models.Post, error)
	ListOwnPosts(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	UpdatePost(ctx context.Context, postID, authorID uuid.UUID, arg repository.UpdatePostParams) (models.Post, error)
	DeletePost(ctx context.Context, postID, authorID uuid.UUID) error

	CreateCategory(ctx context.Context, name string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateTag(ctx context.Context, name string) (models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}
