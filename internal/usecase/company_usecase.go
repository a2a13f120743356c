package usecase

import (
	"context"

	"portal/internal/domain/entity"
	"portal/internal/domain/mapview"
)

// CompanyDetail is a public company profile.
type CompanyDetail struct {
	Company    *entity.Company `json:"company"`
	Image      string          `json:"image"`
	Phone      string          `json:"phone"`
	ProfileURL string          `json:"profileUrl"`
	Map        mapview.View    `json:"map"`
}

// CompanyUsecase defines the company profile use cases.
type CompanyUsecase interface {
	// GetCompany returns the profile of an active company; any other status is not found.
	GetCompany(ctx context.Context, id string) (*CompanyDetail, error)

	// GetCompanyQRCode renders a PNG QR code linking to the company's profile.
	GetCompanyQRCode(ctx context.Context, id string) ([]byte, error)
}
