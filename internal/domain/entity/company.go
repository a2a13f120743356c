// Package entity contains the core business objects of the project.
package entity

import (
	"math"

	"portal/internal/domain/constants"
)

// CompanyStatus is the publication status assigned by the admin system.
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
	CompanyStatusBlocked  CompanyStatus = "blocked"
)

// IsPublic reports whether the company may be shown on the portal.
func (s CompanyStatus) IsPublic() bool {
	return s == CompanyStatusActive
}

// Company is a business listed in the directory. The portal only reads companies.
type Company struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Slug       string        `json:"slug"`
	Address    string        `json:"address"`
	Categories []string      `json:"categories"`
	District   string        `json:"district"`
	Latitude   *float64      `json:"latitude,omitempty"`  // nil when the company has no location.
	Longitude  *float64      `json:"longitude,omitempty"` // nil when the company has no location.
	Status     CompanyStatus `json:"status"`
	ImageURL   string        `json:"image_url"`
	Phone      string        `json:"phone"`
	WhatsApp   string        `json:"whatsapp,omitempty"`
	Highlight  bool          `json:"highlight"`
}

// HasLocation reports whether the company can be placed on the map.
//
// Coordinates must both be present, finite and non-zero. Zero is the "unset"
// sentinel: no business in the portal's region sits on the equator or the
// prime meridian, so a zero latitude or longitude is treated as missing data.
func (c *Company) HasLocation() bool {
	if c.Latitude == nil || c.Longitude == nil {
		return false
	}

	return validCoordinate(*c.Latitude) && validCoordinate(*c.Longitude)
}

func validCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0
}

// DisplayImage returns the image URL or the placeholder when none is set.
func (c *Company) DisplayImage() string {
	if c.ImageURL == "" {
		return constants.PlaceholderImage
	}

	return c.ImageURL
}

// DisplayPhone returns the phone number or a placeholder text.
func (c *Company) DisplayPhone() string {
	if c.Phone == "" {
		return constants.PlaceholderPhone
	}

	return c.Phone
}

// PrimaryCategory returns the first category, or an empty string.
func (c *Company) PrimaryCategory() string {
	if len(c.Categories) == 0 {
		return ""
	}

	return c.Categories[0]
}
