package trucks

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// TruckDTO exposes safe tenant data in API responses.
type TruckDTO struct {
	ID                  uuid.UUID             `json:"id"`
	Name                string                `json:"name"`
	Slug                string                `json:"slug"`
	Description         *string               `json:"description,omitempty"`
	Phone               *string               `json:"phone,omitempty"`
	Email               *string               `json:"email,omitempty"`
	Address             *types.Address        `json:"address,omitempty"`
	Location            *types.GeographyPoint `json:"location,omitempty"`
	Social              *types.Social         `json:"social,omitempty"`
	Ratings             types.Ratings         `json:"ratings,omitempty"`
	Currency            enums.Currency        `json:"currency"`
	BannerURL           *string               `json:"banner_url,omitempty"`
	LogoURL             *string               `json:"logo_url,omitempty"`
	IsActive            bool                  `json:"is_active"`
	PromoCodesStackable bool                  `json:"promo_codes_stackable"`
	OffersStackable     bool                  `json:"offers_stackable"`
	LoyaltyEnabled      bool                  `json:"loyalty_enabled"`
	MinPrepTimeMinutes  int                   `json:"min_prep_time_minutes"`
	OrderingPaused      bool                  `json:"ordering_paused"`
	OwnerID             uuid.UUID             `json:"owner"`
	LastActiveAt        *time.Time            `json:"last_active_at,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// CreateTruckDTO holds creation-time data for a new truck.
type CreateTruckDTO struct {
	Name        string
	Slug        string
	Description *string
	Phone       *string
	Email       *string
	Address     *types.Address
	Location    *types.GeographyPoint
	Social      *types.Social
	Currency    *enums.Currency
	OwnerID     uuid.UUID
}

// FromModel maps the persisted truck into a DTO.
func FromModel(m *models.FoodTruck) *TruckDTO {
	if m == nil {
		return nil
	}

	dto := &TruckDTO{
		ID:                  m.ID,
		Name:                m.Name,
		Slug:                m.Slug,
		Description:         m.Description,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		Location:            m.Location,
		Ratings:             m.Ratings,
		Currency:            m.Currency,
		BannerURL:           m.BannerURL,
		LogoURL:             m.LogoURL,
		IsActive:            m.IsActive,
		PromoCodesStackable: m.PromoCodesStackable,
		OffersStackable:     m.OffersStackable,
		LoyaltyEnabled:      m.LoyaltyEnabled,
		MinPrepTimeMinutes:  m.MinPrepTimeMinutes,
		OrderingPaused:      m.OrderingPaused,
		OwnerID:             m.OwnerID,
		LastActiveAt:        m.LastActiveAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}

	if m.Social != nil {
		cpy := *m.Social
		dto.Social = &cpy
	}

	return dto
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateTruckDTO) ToModel() *models.FoodTruck {
	model := &models.FoodTruck{
		Name:               c.Name,
		Slug:               c.Slug,
		Description:        c.Description,
		Phone:              c.Phone,
		Email:              c.Email,
		Address:            c.Address,
		Location:           c.Location,
		Currency:           enums.CurrencyUSD,
		IsActive:           true,
		OffersStackable:    true,
		MinPrepTimeMinutes: 15,
		OwnerID:            c.OwnerID,
	}

	if c.Currency != nil {
		model.Currency = *c.Currency
	}
	if c.Social != nil {
		cpy := *c.Social
		model.Social = &cpy
	}

	return model
}
