package service

import (
	"portal/internal/domain/entity"
)

// QRCodeService defines the interface for company profile QR codes
type QRCodeService interface {
	// GenerateCompanyQR renders a PNG QR code pointing at the company's public profile
	GenerateCompanyQR(company *entity.Company) ([]byte, error)

	// ProfileURL returns the public profile URL encoded in the QR code
	ProfileURL(company *entity.Company) string
}
