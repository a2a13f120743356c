package usecase

import (
	"context"

	"portal/internal/domain/entity"
	"portal/internal/domain/pagination"
)

// ArticleQuery filters the article listing.
type ArticleQuery struct {
	Page      int
	Limit     int
	Category  string
	Highlight *bool
}

// ArticleList is one page of articles with its page list.
type ArticleList struct {
	Items      []*entity.Article `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
	Pages      []pagination.Item `json:"pages"`
}

// ArticleUsecase defines the article listing use case.
type ArticleUsecase interface {
	ListArticles(ctx context.Context, query ArticleQuery) (*ArticleList, error)
}
