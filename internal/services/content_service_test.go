package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/utils"
)

// fakeContentRepo counts reads so the caching behavior is observable.
type fakeContentRepo struct {
	about     *models.AboutCompany
	news      []*models.News
	faq       []*models.FAQ
	promos    []*models.PromoCode
	contacts  []*models.Contact
	vacancies []*models.Vacancy

	newsReads    int
	contactReads int
}

func (r *fakeContentRepo) GetAbout(_ context.Context) (*models.AboutCompany, error) {
	return r.about, nil
}

func (r *fakeContentRepo) UpsertAbout(_ context.Context, a *models.AboutCompany) error {
	r.about = a
	return nil
}

func (r *fakeContentRepo) CreateContact(_ context.Context, c *models.Contact) error {
	r.contacts = append(r.contacts, c)
	return nil
}

func (r *fakeContentRepo) ListContacts(_ context.Context) ([]*models.Contact, error) {
	r.contactReads++
	return r.contacts, nil
}

func (r *fakeContentRepo) CreateVacancy(_ context.Context, v *models.Vacancy) error {
	r.vacancies = append(r.vacancies, v)
	return nil
}

func (r *fakeContentRepo) ListVacancies(_ context.Context) ([]*models.Vacancy, error) {
	return r.vacancies, nil
}

func (r *fakeContentRepo) CreateNews(_ context.Context, n *models.News) error {
	r.news = append(r.news, n)
	return nil
}

func (r *fakeContentRepo) ListNews(_ context.Context) ([]*models.News, error) {
	r.newsReads++
	return r.news, nil
}

func (r *fakeContentRepo) CreateFAQ(_ context.Context, f *models.FAQ) error {
	r.faq = append(r.faq, f)
	return nil
}

func (r *fakeContentRepo) ListFAQ(_ context.Context) ([]*models.FAQ, error) {
	return r.faq, nil
}

func (r *fakeContentRepo) CreatePromoCode(_ context.Context, p *models.PromoCode) error {
	r.promos = append(r.promos, p)
	return nil
}

func (r *fakeContentRepo) ListActivePromoCodes(_ context.Context) ([]*models.PromoCode, error) {
	return r.promos, nil
}

func newContentFixture() (*fakeStore, *fakeContentRepo, *ContentService) {
	st := newFakeStore()
	contentRepo := &fakeContentRepo{}
	svc := NewContentService(contentRepo, &fakeReviewRepo{st: st})
	return st, contentRepo, svc
}

func TestListNewsServedFromCache(t *testing.T) {
	_, repo, svc := newContentFixture()
	ctx := context.Background()

	_, err := svc.ListNews(ctx)
	require.NoError(t, err)
	_, err = svc.ListNews(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.newsReads, "second read must hit the cache")
}

func TestCreateNewsInvalidatesCache(t *testing.T) {
	_, repo, svc := newContentFixture()
	ctx := context.Background()

	_, err := svc.ListNews(ctx)
	require.NoError(t, err)

	_, err = svc.CreateNews(ctx, "Title", "Summary", nil)
	require.NoError(t, err)

	news, err := svc.ListNews(ctx)
	require.NoError(t, err)
	require.Len(t, news, 1)
	require.Equal(t, 2, repo.newsReads)
}

func TestUpdateAboutReplacesText(t *testing.T) {
	_, repo, svc := newContentFixture()
	ctx := context.Background()

	about, err := svc.About(ctx)
	require.NoError(t, err)
	require.Nil(t, about, "about text starts unset")

	_, err = svc.UpdateAbout(ctx, "We sell houses.")
	require.NoError(t, err)

	about, err = svc.About(ctx)
	require.NoError(t, err)
	require.Equal(t, "We sell houses.", about.Text)

	_, err = svc.UpdateAbout(ctx, "We sell houses and flats.")
	require.NoError(t, err)

	about, err = svc.About(ctx)
	require.NoError(t, err)
	require.Equal(t, "We sell houses and flats.", about.Text)
	require.NotNil(t, repo.about)
}

func TestCreateContactInvalidatesCache(t *testing.T) {
	_, repo, svc := newContentFixture()
	ctx := context.Background()

	_, err := svc.ListContacts(ctx)
	require.NoError(t, err)
	_, err = svc.ListContacts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.contactReads, "second read must hit the cache")

	_, err = svc.CreateContact(ctx, "Ivan", "Agent", nil, "", "+375(29)000-00-00", "ivan@test")
	require.NoError(t, err)

	contacts, err := svc.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.Equal(t, 2, repo.contactReads)
}

func TestCreateVacancyVisibleAfterWrite(t *testing.T) {
	_, _, svc := newContentFixture()
	ctx := context.Background()

	_, err := svc.ListVacancies(ctx)
	require.NoError(t, err)

	v, err := svc.CreateVacancy(ctx, "Estate agent", 180_000, "Full-time")
	require.NoError(t, err)
	require.Equal(t, int64(180_000), v.SalaryCents)

	vacancies, err := svc.ListVacancies(ctx)
	require.NoError(t, err)
	require.Len(t, vacancies, 1)
}

func TestUpdateReviewRequiresOwnership(t *testing.T) {
	st, _, svc := newContentFixture()
	ctx := context.Background()

	author := st.addUser("author@test", models.UserRoleClient)
	stranger := st.addUser("stranger@test", models.UserRoleClient)

	rv, err := svc.CreateReview(ctx, author.ID.String(), 5, "great agency")
	require.NoError(t, err)

	_, err = svc.UpdateReview(ctx, stranger.ID.String(), rv.ID, 1, "vandalized")
	require.ErrorIs(t, err, utils.ErrNotReviewOwner)

	updated, err := svc.UpdateReview(ctx, author.ID.String(), rv.ID, 4, "still good")
	require.NoError(t, err)
	require.Equal(t, 4, updated.Rating)
}

func TestDeleteReviewOwnerAndAdmin(t *testing.T) {
	st, _, svc := newContentFixture()
	ctx := context.Background()

	author := st.addUser("author@test", models.UserRoleClient)
	stranger := st.addUser("stranger@test", models.UserRoleClient)
	admin := st.addUser("admin@test", models.UserRoleAdmin)

	rv, err := svc.CreateReview(ctx, author.ID.String(), 3, "ok")
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, stranger.ID.String(), models.UserRoleClient, rv.ID)
	require.ErrorIs(t, err, utils.ErrNotReviewOwner)
	require.Len(t, st.reviews, 1)

	err = svc.DeleteReview(ctx, admin.ID.String(), models.UserRoleAdmin, rv.ID)
	require.NoError(t, err)
	require.Empty(t, st.reviews)
}

// goneReviewRepo simulates a review deleted between the ownership read and
// the update write.
type goneReviewRepo struct{ *fakeReviewRepo }

func (r *goneReviewRepo) Update(context.Context, *models.Review) error {
	return utils.ErrNoRowsUpdated
}

func TestUpdateReviewGoneBetweenReadAndWrite(t *testing.T) {
	st := newFakeStore()
	svc := NewContentService(&fakeContentRepo{}, &goneReviewRepo{&fakeReviewRepo{st: st}})
	ctx := context.Background()

	author := st.addUser("author@test", models.UserRoleClient)
	rv, err := svc.CreateReview(ctx, author.ID.String(), 5, "great")
	require.NoError(t, err)

	updated, err := svc.UpdateReview(ctx, author.ID.String(), rv.ID, 1, "edited")
	require.NoError(t, err)
	require.Nil(t, updated, "a concurrently deleted review reads as missing")
}

func TestDeleteMissingReviewIsNoop(t *testing.T) {
	st, _, svc := newContentFixture()
	user := st.addUser("user@test", models.UserRoleClient)

	err := svc.DeleteReview(context.Background(), user.ID.String(), models.UserRoleClient, uuid.New())
	require.NoError(t, err)
}
