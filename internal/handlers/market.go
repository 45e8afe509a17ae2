package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/handlers/render"
	"github.com/aydjer/agrimarket/internal/handlers/userctx"
	"github.com/aydjer/agrimarket/internal/logger"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
	"github.com/aydjer/agrimarket/internal/service/market"
)

const dateLayout = "2006-01-02"

type landResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	AreaHa      decimal.Decimal `json:"areaHa"`
	Price       decimal.Decimal `json:"price"`
	Location    string          `json:"location"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toLandResponse(l models.Land) landResponse {
	return landResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		AreaHa:      l.AreaHa,
		Price:       l.Price,
		Location:    l.Location,
		CreatedAt:   l.CreatedAt,
	}
}

type equipmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	Location    string          `json:"location"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toEquipmentResponse(e models.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		DailyRate:   e.DailyRate,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
	}
}

type productResponse struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int32           `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
	}
}

type rentalResponse struct {
	ID          uuid.UUID       `json:"id"`
	EquipmentID uuid.UUID       `json:"equipmentId"`
	RenterID    uuid.UUID       `json:"renterId"`
	StartsOn    string          `json:"startsOn"`
	EndsOn      string          `json:"endsOn"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toRentalResponse(rt models.Rental) rentalResponse {
	return rentalResponse{
		ID:          rt.ID,
		EquipmentID: rt.EquipmentID,
		RenterID:    rt.RenterID,
		StartsOn:    rt.StartsOn.Format(dateLayout),
		EndsOn:      rt.EndsOn.Format(dateLayout),
		DailyRate:   rt.DailyRate,
		Status:      string(rt.Status),
		CreatedAt:   rt.CreatedAt,
	}
}

// listingError renders the common outcomes of listing mutations. Ownership
// mismatches surface as not found, same as a missing row.
func listingError(w http.ResponseWriter, l logger.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrListingNotFound):
		render.Error(w, err)
	default:
		l.Error("Failed to "+action, "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func requireAuth(w http.ResponseWriter, r *http.Request) (userctx.AuthInfo, bool) {
	info, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
	return info, ok
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		render.ServiceError(w, "Invalid "+name, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// Lands

func handleListLands(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lands, err := marketService.ListLands(r.Context())
		if err != nil {
			l.Error("Failed to list lands", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]landResponse, 0, len(lands))
		for _, land := range lands {
			res = append(res, toLandResponse(land))
		}
		render.JSON(w, res)
	})
}

func handleGetLand(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		landID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		land, err := marketService.GetLand(r.Context(), landID)

		switch {
		case err == nil:
			render.JSON(w, toLandResponse(land))
		default:
			listingError(w, l, err, "get land")
		}
	})
}

func handleListOwnLands(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		lands, err := marketService.ListOwnLands(r.Context(), info.UserID)
		if err != nil {
			l.Error("Failed to list own lands", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]landResponse, 0, len(lands))
		for _, land := range lands {
			res = append(res, toLandResponse(land))
		}
		render.JSON(w, res)
	})
}

func handleCreateLand(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		Title       string          `json:"title" validate:"required,min=3,max=200"`
		Description string          `json:"description" validate:"max=5000"`
		AreaHa      decimal.Decimal `json:"areaHa"`
		Price       decimal.Decimal `json:"price"`
		Location    string          `json:"location" validate:"required,max=200"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		land, err := marketService.CreateLand(r.Context(), info.UserID, market.LandParams{
			Title:       data.Title,
			Description: data.Description,
			AreaHa:      data.AreaHa,
			Price:       data.Price,
			Location:    data.Location,
		})
		if err != nil {
			l.Error("Failed to create land", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toLandResponse(land), http.StatusCreated)
	})
}

func handleUpdateLand(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
		Description *string          `json:"description" validate:"omitempty,max=5000"`
		AreaHa      *decimal.Decimal `json:"areaHa"`
		Price       *decimal.Decimal `json:"price"`
		Location    *string          `json:"location" validate:"omitempty,max=200"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		landID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		land, err := marketService.UpdateLand(r.Context(), landID, info.UserID, repository.UpdateLandParams{
			Title:       data.Title,
			Description: data.Description,
			AreaHa:      data.AreaHa,
			Price:       data.Price,
			Location:    data.Location,
		})

		switch {
		case err == nil:
			render.JSON(w, toLandResponse(land))
		default:
			listingError(w, l, err, "update land")
		}
	})
}

func handleDeleteLand(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		landID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		err := marketService.DeleteLand(r.Context(), landID, info.UserID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		default:
			listingError(w, l, err, "delete land")
		}
	})
}

// Equipment

func handleListEquipment(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items, err := marketService.ListEquipment(r.Context())
		if err != nil {
			l.Error("Failed to list equipment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]equipmentResponse, 0, len(items))
		for _, e := range items {
			res = append(res, toEquipmentResponse(e))
		}
		render.JSON(w, res)
	})
}

func handleGetEquipment(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		equipmentID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		e, err := marketService.GetEquipment(r.Context(), equipmentID)

		switch {
		case err == nil:
			render.JSON(w, toEquipmentResponse(e))
		default:
			listingError(w, l, err, "get equipment")
		}
	})
}

func handleListOwnEquipment(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		items, err := marketService.ListOwnEquipment(r.Context(), info.UserID)
		if err != nil {
			l.Error("Failed to list own equipment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]equipmentResponse, 0, len(items))
		for _, e := range items {
			res = append(res, toEquipmentResponse(e))
		}
		render.JSON(w, res)
	})
}

func handleCreateEquipment(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		Title       string          `json:"title" validate:"required,min=3,max=200"`
		Description string          `json:"description" validate:"max=5000"`
		DailyRate   decimal.Decimal `json:"dailyRate"`
		Location    string          `json:"location" validate:"required,max=200"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		e, err := marketService.CreateEquipment(r.Context(), info.UserID, market.EquipmentParams{
			Title:       data.Title,
			Description: data.Description,
			DailyRate:   data.DailyRate,
			Location:    data.Location,
		})
		if err != nil {
			l.Error("Failed to create equipment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toEquipmentResponse(e), http.StatusCreated)
	})
}

func handleUpdateEquipment(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
		Description *string          `json:"description" validate:"omitempty,max=5000"`
		DailyRate   *decimal.Decimal `json:"dailyRate"`
		Location    *string          `json:"location" validate:"omitempty,max=200"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		equipmentID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		e, err := marketService.UpdateEquipment(r.Context(), equipmentID, info.UserID, repository.UpdateEquipmentParams{
			Title:       data.Title,
			Description: data.Description,
			DailyRate:   data.DailyRate,
			Location:    data.Location,
		})

		switch {
		case err == nil:
			render.JSON(w, toEquipmentResponse(e))
		default:
			listingError(w, l, err, "update equipment")
		}
	})
}

func handleDeleteEquipment(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		equipmentID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		err := marketService.DeleteEquipment(r.Context(), equipmentID, info.UserID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		default:
			listingError(w, l, err, "delete equipment")
		}
	})
}

// Rentals

func handleRentEquipment(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		StartsOn string `json:"startsOn" validate:"required"`
		EndsOn   string `json:"endsOn" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		equipmentID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		startsOn, err := time.Parse(dateLayout, data.StartsOn)
		if err != nil {
			render.ServiceError(w, "Invalid startsOn date", http.StatusBadRequest)
			return
		}
		endsOn, err := time.Parse(dateLayout, data.EndsOn)
		if err != nil {
			render.ServiceError(w, "Invalid endsOn date", http.StatusBadRequest)
			return
		}

		rental, err := marketService.RentEquipment(r.Context(), info.UserID, equipmentID, startsOn, endsOn)

		switch {
		case err == nil:
			render.JSONWithStatus(w, toRentalResponse(rental), http.StatusCreated)
		case errors.Is(err, apperrors.ErrRentalConflict):
			render.Error(w, err)
		case errors.Is(err, apperrors.ErrListingNotFound):
			render.Error(w, err)
		case apperrors.KindOf(err) == apperrors.KindBadRequest:
			render.Error(w, err)
		default:
			l.Error("Failed to rent equipment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListOwnRentals(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		rentals, err := marketService.ListOwnRentals(r.Context(), info.UserID)
		if err != nil {
			l.Error("Failed to list rentals", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]rentalResponse, 0, len(rentals))
		for _, rt := range rentals {
			res = append(res, toRentalResponse(rt))
		}
		render.JSON(w, res)
	})
}

func handleListEquipmentRentals(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		equipmentID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		rentals, err := marketService.ListEquipmentRentals(r.Context(), equipmentID, info.UserID)

		switch {
		case err == nil:
			res := make([]rentalResponse, 0, len(rentals))
			for _, rt := range rentals {
				res = append(res, toRentalResponse(rt))
			}
			render.JSON(w, res)
		default:
			listingError(w, l, err, "list equipment rentals")
		}
	})
}

// Products

func handleListProducts(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products, err := marketService.ListProducts(r.Context())
		if err != nil {
			l.Error("Failed to list products", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]productResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		render.JSON(w, res)
	})
}

func handleGetProduct(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		p, err := marketService.GetProduct(r.Context(), productID)

		switch {
		case err == nil:
			render.JSON(w, toProductResponse(p))
		default:
			listingError(w, l, err, "get product")
		}
	})
}

func handleListOwnProducts(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		products, err := marketService.ListOwnProducts(r.Context(), info.UserID)
		if err != nil {
			l.Error("Failed to list own products", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]productResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}
		render.JSON(w, res)
	})
}

func handleCreateProduct(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		Title       string          `json:"title" validate:"required,min=3,max=200"`
		Description string          `json:"description" validate:"max=5000"`
		Price       decimal.Decimal `json:"price"`
		Quantity    int32           `json:"quantity" validate:"min=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		p, err := marketService.CreateProduct(r.Context(), info.UserID, market.ProductParams{
			Title:       data.Title,
			Description: data.Description,
			Price:       data.Price,
			Quantity:    data.Quantity,
		})
		if err != nil {
			l.Error("Failed to create product", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, toProductResponse(p), http.StatusCreated)
	})
}

func handleUpdateProduct(marketService marketService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
		Description *string          `json:"description" validate:"omitempty,max=5000"`
		Price       *decimal.Decimal `json:"price"`
		Quantity    *int32           `json:"quantity" validate:"omitempty,min=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		p, err := marketService.UpdateProduct(r.Context(), productID, info.UserID, repository.UpdateProductParams{
			Title:       data.Title,
			Description: data.Description,
			Price:       data.Price,
			Quantity:    data.Quantity,
		})

		switch {
		case err == nil:
			render.JSON(w, toProductResponse(p))
		default:
			listingError(w, l, err, "update product")
		}
	})
}

func handleDeleteProduct(marketService marketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := requireAuth(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		err := marketService.DeleteProduct(r.Context(), productID, info.UserID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		default:
			listingError(w, l, err, "delete product")
		}
	})
}
