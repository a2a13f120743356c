// Package repository defines the interfaces for the data access layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer,
// which reaches the portal's upstream REST API.
package repository

import (
	"context"

	"portal/internal/domain/entity"
	"portal/internal/errors"
)

// Domain-specific errors for upstream data access.
var (
	// ErrCompanyNotFound is returned when a company does not exist or is not public.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrUpstream is returned when the upstream API fails or answers with an unexpected payload.
	ErrUpstream = errors.New("upstream request failed")
)

// CompanyQuery is a directory listing request. Text fields are sent already normalized.
type CompanyQuery struct {
	Page     int
	Limit    int
	Name     string
	Category string
	District string
}

// CompanyRepository defines read access to directory companies.
type CompanyRepository interface {
	// ListCompanies returns one page of active companies matching the query.
	ListCompanies(ctx context.Context, query CompanyQuery) (*entity.Page[*entity.Company], error)

	// FindCompanyByID returns a company regardless of status.
	// Returns ErrCompanyNotFound if the upstream has no such company.
	FindCompanyByID(ctx context.Context, id string) (*entity.Company, error)
}
