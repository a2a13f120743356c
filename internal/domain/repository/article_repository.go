package repository

import (
	"context"

	"portal/internal/domain/entity"
)

// ArticleQuery is a news listing request.
type ArticleQuery struct {
	Page         int
	Limit        int
	CategoryName string
	Highlight    *bool
}

// ArticleRepository defines read access to portal articles.
type ArticleRepository interface {
	// ListArticles returns one page of articles matching the query.
	ListArticles(ctx context.Context, query ArticleQuery) (*entity.Page[*entity.Article], error)
}
