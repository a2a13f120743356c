package impl

import (
	"context"
	"strings"

	"portal/internal/domain/pagination"
	"portal/internal/domain/repository"
	"portal/internal/usecase"
)

const (
	defaultArticleLimit = 9
	maxArticleLimit     = 50
)

// articleService implements usecase.ArticleUsecase.
type articleService struct {
	repo repository.ArticleRepository
}

// NewArticleService is the constructor for articleService.
func NewArticleService(repo repository.ArticleRepository) usecase.ArticleUsecase {
	return &articleService{repo: repo}
}

func (srv *articleService) ListArticles(ctx context.Context, query usecase.ArticleQuery) (*usecase.ArticleList, error) {
	page := max(query.Page, 1)
	limit := query.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}
	limit = min(limit, maxArticleLimit)

	result, err := srv.repo.ListArticles(ctx, repository.ArticleQuery{
		Page:         page,
		Limit:        limit,
		CategoryName: strings.TrimSpace(query.Category),
		Highlight:    query.Highlight,
	})
	if err != nil {
		return nil, translateUpstreamError(err)
	}

	return &usecase.ArticleList{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
		Pages:      pagination.PageList(result.Page, result.TotalPages),
	}, nil
}
