package portalapi

import (
	"context"
	"net/url"
	"strconv"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
)

type articleRepository struct {
	client *Client
}

// NewArticleRepository creates an article repository backed by the portal API
func NewArticleRepository(client *Client) repository.ArticleRepository {
	return &articleRepository{client: client}
}

// ListArticles calls GET /article-portal
func (r *articleRepository) ListArticles(ctx context.Context, query repository.ArticleQuery) (*entity.Page[*entity.Article], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("limit", strconv.Itoa(query.Limit))
	if query.CategoryName != "" {
		params.Set("category_name", query.CategoryName)
	}
	if query.Highlight != nil {
		params.Set("highlight", strconv.FormatBool(*query.Highlight))
	}

	var envelope pageEnvelope[articleModel]
	if _, err := r.client.GetJSON(ctx, "/article-portal", params, &envelope); err != nil {
		return nil, err
	}

	articles := make([]*entity.Article, 0, len(envelope.Data))
	for i := range envelope.Data {
		articles = append(articles, envelope.Data[i].toEntity())
	}

	page := envelope.Page
	if page <= 0 {
		page = query.Page
	}
	limit := envelope.Limit
	if limit <= 0 {
		limit = query.Limit
	}

	return entity.NewPage(articles, envelope.Total, page, limit), nil
}
