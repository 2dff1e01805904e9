package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/catalog"
	"marketplace/internal/logging"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

type ListingService struct {
	repo       *repository.Repository
	categories *catalog.Categories
	log        *zap.Logger
	now        func() time.Time
}

func NewListingService(repo *repository.Repository, categories *catalog.Categories, log *zap.Logger) *ListingService {
	if categories == nil {
		categories = catalog.NewCategories(catalog.DefaultCategories)
	}
	return &ListingService{
		repo:       repo,
		categories: categories,
		log:        logging.OrNop(log),
		now:        time.Now,
	}
}

// Categories returns the configured category set
func (s *ListingService) Categories() *catalog.Categories {
	return s.categories
}

// List returns the listings matching criteria, newest first
func (s *ListingService) List(ctx context.Context, criteria catalog.Criteria) ([]api.Listing, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	now := s.now()
	listings := make([]api.Listing, 0, len(products))
	for _, p := range products {
		listings = append(listings, toAPIListing(p, now))
	}

	if criteria.IsEmpty() {
		return listings, nil
	}
	return catalog.Filter(listings, criteria), nil
}

// Get returns one listing and counts the view
func (s *ListingService) Get(ctx context.Context, productID uint) (api.Listing, error) {
	if err := s.repo.IncrementProductViews(ctx, productID); err != nil {
		return api.Listing{}, fmt.Errorf("failed to count view: %w", err)
	}

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return api.Listing{}, err
	}
	return toAPIListing(product, s.now()), nil
}

// Create validates and stores a new listing for a seller
func (s *ListingService) Create(ctx context.Context, req api.CreateListingRequest) (uint, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)

	if err := api.Validate(req); err != nil {
		return 0, err
	}

	price, err := catalog.ParsePrice(req.Price)
	if err != nil {
		return 0, err
	}

	if !s.categories.Contains(req.Category) {
		return 0, api.Invalid("category", "unknown category %q", req.Category)
	}

	seller, err := s.repo.GetUserByID(ctx, req.SellerID)
	if err != nil {
		if api.IsNotFound(err) {
			return 0, api.Invalid("seller_id", "unknown seller %d", req.SellerID)
		}
		return 0, err
	}

	product := models.Product{
		Title:          req.Title,
		Price:          price,
		Category:       req.Category,
		Description:    req.Description,
		Location:       req.Location,
		ImageEmoji:     s.categories.Image(req.Category),
		SellerID:       seller.ID,
		VerifiedSeller: seller.Verified,
	}

	if err := s.repo.CreateProduct(ctx, &product); err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info("Listing created",
		zap.Uint("product_id", product.ID),
		zap.Uint("seller_id", seller.ID),
		zap.String("category", product.Category),
		zap.Int64("price", product.Price))
	return product.ID, nil
}
