package impl

import (
	"context"
	"log/slog"
	"testing"

	"portal/config"
	"portal/internal/domain/constants"
	"portal/internal/domain/entity"
	domainerrors "portal/internal/domain/errors"
	"portal/internal/domain/repository"
	"portal/internal/infra/qrcode"
	mockRepo "portal/internal/mocks/repository"
	"portal/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestCompanyService(t *testing.T) (usecase.CompanyUsecase, *mockRepo.MockCompanyRepository) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	repo := mockRepo.NewMockCompanyRepository(t)
	srv := NewCompanyService(cfg, repo, qrcode.NewQRCodeService(128, "M", "https://portal.example"), slog.New(slog.DiscardHandler))

	return srv, repo
}

func TestCompanyService_GetCompany(t *testing.T) {
	srv, repo := createTestCompanyService(t)

	company := located(&entity.Company{
		ID:         "42",
		Name:       "Padaria Estrela",
		Slug:       "padaria-estrela",
		Categories: []string{"Padaria"},
		Status:     entity.CompanyStatusActive,
	}, -27.59, -48.55)
	repo.EXPECT().FindCompanyByID(mock.Anything, "42").Return(company, nil).Once()

	detail, err := srv.GetCompany(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, constants.PlaceholderImage, detail.Image)
	assert.Equal(t, constants.PlaceholderPhone, detail.Phone)
	assert.Equal(t, "https://portal.example/empresa/padaria-estrela", detail.ProfileURL)

	require.Len(t, detail.Map.Markers, 1)
	assert.Equal(t, 17, detail.Map.Camera.Zoom, "a single company is framed at street level")
	assert.InDelta(t, -27.59, detail.Map.Camera.Center.Lat(), 1e-9)
}

func TestCompanyService_GetCompanyWithoutLocation(t *testing.T) {
	srv, repo := createTestCompanyService(t)

	repo.EXPECT().
		FindCompanyByID(mock.Anything, "7").
		Return(&entity.Company{ID: "7", Name: "Sem Mapa", Status: entity.CompanyStatusActive}, nil).
		Once()

	detail, err := srv.GetCompany(context.Background(), "7")
	require.NoError(t, err)
	assert.Empty(t, detail.Map.Markers)
	assert.Equal(t, 12, detail.Map.Camera.Zoom)
}

func TestCompanyService_GetCompanyErrors(t *testing.T) {
	tests := []struct {
		name    string
		company *entity.Company
		repoErr error
		wantErr error
	}{
		{
			name:    "inactive company is hidden",
			company: &entity.Company{ID: "1", Status: entity.CompanyStatusInactive},
			wantErr: domainerrors.ErrCompanyNotFound,
		},
		{
			name:    "blocked company is hidden",
			company: &entity.Company{ID: "1", Status: entity.CompanyStatusBlocked},
			wantErr: domainerrors.ErrCompanyNotFound,
		},
		{
			name:    "missing company",
			repoErr: errors.Wrap(repository.ErrCompanyNotFound, "id 1"),
			wantErr: domainerrors.ErrCompanyNotFound,
		},
		{
			name:    "upstream down",
			repoErr: errors.Wrap(repository.ErrUpstream, "status 503"),
			wantErr: domainerrors.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, repo := createTestCompanyService(t)
			repo.EXPECT().FindCompanyByID(mock.Anything, "1").Return(tt.company, tt.repoErr).Once()

			_, err := srv.GetCompany(context.Background(), "1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompanyService_GetCompanyQRCode(t *testing.T) {
	srv, repo := createTestCompanyService(t)

	repo.EXPECT().
		FindCompanyByID(mock.Anything, "42").
		Return(&entity.Company{ID: "42", Name: "Padaria Estrela", Status: entity.CompanyStatusActive}, nil).
		Once()

	png, err := srv.GetCompanyQRCode(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestArticleService_ListArticles(t *testing.T) {
	repo := mockRepo.NewMockArticleRepository(t)
	srv := NewArticleService(repo)

	articles := []*entity.Article{{ID: "1", Title: "Feira no Centro"}, {ID: "2", Title: "Nova ciclovia"}}
	highlight := true
	repo.EXPECT().
		ListArticles(mock.Anything, repository.ArticleQuery{Page: 1, Limit: 9, CategoryName: "Cidade", Highlight: &highlight}).
		Return(entity.NewPage(articles, 20, 1, 9), nil).
		Once()

	list, err := srv.ListArticles(context.Background(), usecase.ArticleQuery{Page: -3, Category: " Cidade ", Highlight: &highlight})
	require.NoError(t, err)

	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.TotalPages)
	assert.Len(t, list.Pages, 3)
}

func TestArticleService_LimitIsCapped(t *testing.T) {
	repo := mockRepo.NewMockArticleRepository(t)
	srv := NewArticleService(repo)

	repo.EXPECT().
		ListArticles(mock.Anything, repository.ArticleQuery{Page: 2, Limit: 50}).
		Return(entity.NewPage([]*entity.Article{}, 0, 2, 50), nil).
		Once()

	list, err := srv.ListArticles(context.Background(), usecase.ArticleQuery{Page: 2, Limit: 500})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestArticleService_UpstreamError(t *testing.T) {
	repo := mockRepo.NewMockArticleRepository(t)
	srv := NewArticleService(repo)

	repo.EXPECT().
		ListArticles(mock.Anything, mock.Anything).
		Return(nil, errors.Wrap(repository.ErrUpstream, "timeout")).
		Once()

	_, err := srv.ListArticles(context.Background(), usecase.ArticleQuery{})
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}
