package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

const (
	contentCacheTTL = 2 * time.Minute

	cacheKeyAbout     = "about"
	cacheKeyNews      = "news"
	cacheKeyFAQ       = "faq"
	cacheKeyPromos    = "promos"
	cacheKeyContacts  = "contacts"
	cacheKeyVacancies = "vacancies"
)

// ContentService serves the public-site content pages and client reviews.
// News, FAQ and promo lists change rarely, so they sit behind a short cache
// that admin writes invalidate directly.
type ContentService struct {
	contentRepo repositories.ContentRepository
	reviewRepo  repositories.ReviewRepository
	cache       *gocache.Cache
}

func NewContentService(contentRepo repositories.ContentRepository, reviewRepo repositories.ReviewRepository) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		reviewRepo:  reviewRepo,
		cache:       gocache.New(contentCacheTTL, 10*time.Minute),
	}
}

// About returns the current about-page text, or nil if it was never set.
func (s *ContentService) About(ctx context.Context) (*models.AboutCompany, error) {
	if cached, ok := s.cache.Get(cacheKeyAbout); ok {
		return cached.(*models.AboutCompany), nil
	}
	about, err := s.contentRepo.GetAbout(ctx)
	if err != nil {
		return nil, err
	}
	if about != nil {
		s.cache.Set(cacheKeyAbout, about, gocache.DefaultExpiration)
	}
	return about, nil
}

func (s *ContentService) UpdateAbout(ctx context.Context, text string) (*models.AboutCompany, error) {
	about := &models.AboutCompany{
		ID:        uuid.New(),
		Text:      text,
		UpdatedAt: time.Now(),
	}
	if err := s.contentRepo.UpsertAbout(ctx, about); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyAbout)
	return about, nil
}

func (s *ContentService) ListNews(ctx context.Context) ([]*models.News, error) {
	if cached, ok := s.cache.Get(cacheKeyNews); ok {
		return cached.([]*models.News), nil
	}
	news, err := s.contentRepo.ListNews(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyNews, news, gocache.DefaultExpiration)
	return news, nil
}

func (s *ContentService) CreateNews(ctx context.Context, title, summary string, imageURL *string) (*models.News, error) {
	n := &models.News{
		ID:       uuid.New(),
		Title:    title,
		Summary:  summary,
		ImageURL: imageURL,
		Created:  time.Now(),
	}
	if err := s.contentRepo.CreateNews(ctx, n); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyNews)
	return n, nil
}

func (s *ContentService) ListFAQ(ctx context.Context) ([]*models.FAQ, error) {
	if cached, ok := s.cache.Get(cacheKeyFAQ); ok {
		return cached.([]*models.FAQ), nil
	}
	faq, err := s.contentRepo.ListFAQ(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyFAQ, faq, gocache.DefaultExpiration)
	return faq, nil
}

func (s *ContentService) CreateFAQ(ctx context.Context, question, answer string) (*models.FAQ, error) {
	f := &models.FAQ{
		ID:        uuid.New(),
		Question:  question,
		Answer:    answer,
		AddedDate: time.Now(),
	}
	if err := s.contentRepo.CreateFAQ(ctx, f); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyFAQ)
	return f, nil
}

func (s *ContentService) ListActivePromoCodes(ctx context.Context) ([]*models.PromoCode, error) {
	if cached, ok := s.cache.Get(cacheKeyPromos); ok {
		return cached.([]*models.PromoCode), nil
	}
	promos, err := s.contentRepo.ListActivePromoCodes(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyPromos, promos, gocache.DefaultExpiration)
	return promos, nil
}

func (s *ContentService) CreatePromoCode(ctx context.Context, code string, discountPercent int, description string) (*models.PromoCode, error) {
	p := &models.PromoCode{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: discountPercent,
		Description:     description,
		Active:          true,
	}
	if err := s.contentRepo.CreatePromoCode(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyPromos)
	return p, nil
}

func (s *ContentService) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	if cached, ok := s.cache.Get(cacheKeyContacts); ok {
		return cached.([]*models.Contact), nil
	}
	contacts, err := s.contentRepo.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyContacts, contacts, gocache.DefaultExpiration)
	return contacts, nil
}

func (s *ContentService) CreateContact(ctx context.Context, name, position string, photoURL *string, description, phone, email string) (*models.Contact, error) {
	c := &models.Contact{
		ID:          uuid.New(),
		Name:        name,
		Position:    position,
		PhotoURL:    photoURL,
		Description: description,
		Phone:       phone,
		Email:       email,
	}
	if err := s.contentRepo.CreateContact(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyContacts)
	return c, nil
}

func (s *ContentService) ListVacancies(ctx context.Context) ([]*models.Vacancy, error) {
	if cached, ok := s.cache.Get(cacheKeyVacancies); ok {
		return cached.([]*models.Vacancy), nil
	}
	vacancies, err := s.contentRepo.ListVacancies(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKeyVacancies, vacancies, gocache.DefaultExpiration)
	return vacancies, nil
}

func (s *ContentService) CreateVacancy(ctx context.Context, position string, salaryCents int64, description string) (*models.Vacancy, error) {
	v := &models.Vacancy{
		ID:          uuid.New(),
		Position:    position,
		SalaryCents: salaryCents,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.contentRepo.CreateVacancy(ctx, v); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKeyVacancies)
	return v, nil
}

func (s *ContentService) ListReviews(ctx context.Context) ([]*models.Review, error) {
	return s.reviewRepo.List(ctx)
}

func (s *ContentService) CreateReview(ctx context.Context, userID string, rating int, text string) (*models.Review, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	rv := &models.Review{
		ID:     uuid.New(),
		UserID: uID,
		Rating: rating,
		Text:   text,
	}
	if err := s.reviewRepo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// UpdateReview edits a review; only its author may do so.
func (s *ContentService) UpdateReview(ctx context.Context, userID string, reviewID uuid.UUID, rating int, text string) (*models.Review, error) {
	rv, err := s.ownedReview(ctx, userID, reviewID, false)
	if err != nil || rv == nil {
		return nil, err
	}
	rv.Rating = rating
	rv.Text = text
	if err := s.reviewRepo.Update(ctx, rv); err != nil {
		// Deleted after the ownership read; treat it as gone.
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, nil
		}
		return nil, err
	}
	return rv, nil
}

// DeleteReview removes a review; the author or an admin may do so.
func (s *ContentService) DeleteReview(ctx context.Context, userID string, role models.UserRoleType, reviewID uuid.UUID) error {
	rv, err := s.ownedReview(ctx, userID, reviewID, role == models.UserRoleAdmin)
	if err != nil {
		return err
	}
	if rv == nil {
		return nil
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *ContentService) ownedReview(ctx context.Context, userID string, reviewID uuid.UUID, bypassOwner bool) (*models.Review, error) {
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	rv, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, nil
	}
	if !bypassOwner && rv.UserID != uID {
		return nil, utils.ErrNotReviewOwner
	}
	return rv, nil
}
