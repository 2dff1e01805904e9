package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/catalog"
	"marketplace/internal/logging"
	"marketplace/internal/services"
)

type ListingHandler struct {
	service *services.ListingService
	log     *zap.Logger
}

func NewListingHandler(service *services.ListingService, log *zap.Logger) *ListingHandler {
	return &ListingHandler{service: service, log: logging.OrNop(log)}
}

// GetProducts returns listings, optionally filtered by q, category,
// min_price, max_price and verified_only
func (h *ListingHandler) GetProducts(c *gin.Context) {
	criteria := catalog.CriteriaFromQuery(c.Request.URL.Query())

	listings, err := h.service.List(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, api.ListingsResponse{Products: listings})
}

// GetProduct returns a single listing and counts the view
func (h *ListingHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid product ID"})
		return
	}

	listing, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// CreateProduct creates a listing from the ad form
func (h *ListingHandler) CreateProduct(c *gin.Context) {
	var req createListingBody
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), req.toRequest())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, api.CreatedResponse{ID: id, Message: "Product created successfully"})
}

// GetCategories returns the configured categories with listing counts
func (h *ListingHandler) GetCategories(c *gin.Context) {
	listings, err := h.service.List(c.Request.Context(), catalog.Criteria{})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	counts := h.service.Categories().CountByCategory(listings)
	out := make([]api.CategorySummary, 0, len(counts))
	for _, cc := range counts {
		out = append(out, api.CategorySummary{Name: cc.Name, Image: cc.Image, Count: cc.Count})
	}
	c.JSON(http.StatusOK, api.CategoriesResponse{Categories: out})
}

// createListingBody accepts price as either a JSON string or number, since
// form clients send text
type createListingBody struct {
	SellerID    uint        `json:"seller_id"`
	Title       string      `json:"title"`
	Price       interface{} `json:"price"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
}

func (b createListingBody) toRequest() api.CreateListingRequest {
	var price string
	switch v := b.Price.(type) {
	case string:
		price = v
	case float64:
		price = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return api.CreateListingRequest{
		SellerID:    b.SellerID,
		Title:       b.Title,
		Price:       price,
		Category:    b.Category,
		Description: b.Description,
		Location:    b.Location,
	}
}
