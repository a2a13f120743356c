package qrcode

import (
	"net/url"
	"strings"

	"portal/internal/domain/entity"
	"portal/internal/domain/service"
	"portal/internal/errors"
	"portal/internal/util"

	"github.com/skip2/go-qrcode"
)

const profilePath = "/empresa/"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a QR code service for company profile links
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// ProfileURL prefers the company slug and falls back to a slug derived from
// the name plus the id, so the link stays stable when names collide.
func (s *qrcodeService) ProfileURL(company *entity.Company) string {
	slug := company.Slug
	if slug == "" {
		slug = util.Slugify(company.Name)
		if slug == "" {
			slug = company.ID
		} else {
			slug += "-" + company.ID
		}
	}

	return s.baseURL + profilePath + url.PathEscape(slug)
}

// GenerateCompanyQR renders the profile URL as a PNG
func (s *qrcodeService) GenerateCompanyQR(company *entity.Company) ([]byte, error) {
	if company == nil || company.ID == "" {
		return nil, errors.New("company is required")
	}

	qrCode, err := qrcode.New(s.ProfileURL(company), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
