package orders

import (
	"time"

	"github.com/google/uuid"

	ordersvc "github.com/curbsidehq/curbside-backend/internal/orders"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// OrderLineResponse is one committed line of an order.
type OrderLineResponse struct {
	ID              uuid.UUID             `json:"id"`
	MenuItemID      *uuid.UUID            `json:"menu_item_id,omitempty"`
	Name            string                `json:"name"`
	Quantity        int                   `json:"quantity"`
	UnitPriceCents  int                   `json:"unit_price_cents"`
	LineTotalCents  int                   `json:"line_total_cents"`
	SelectedOptions types.SelectedOptions `json:"selected_options,omitempty"`
	BundleInfo      *types.BundleInfo     `json:"bundle_info,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
}

// OrderResponse is the merchant and customer view of an order.
type OrderResponse struct {
	ID                   uuid.UUID                 `json:"id"`
	TruckID              uuid.UUID                 `json:"truck_id"`
	CustomerName         string                    `json:"customer_name"`
	CustomerEmail        *string                   `json:"customer_email,omitempty"`
	CustomerPhone        *string                   `json:"customer_phone,omitempty"`
	Status               string                    `json:"status"`
	Currency             string                    `json:"currency"`
	SubtotalCents        int                       `json:"subtotal_cents"`
	OfferDiscountCents   int                       `json:"offer_discount_cents"`
	PromoDiscountCents   int                       `json:"promo_discount_cents"`
	LoyaltyDiscountCents int                       `json:"loyalty_discount_cents"`
	TotalCents           int                       `json:"total_cents"`
	AppliedOffers        types.AppliedOfferDetails `json:"applied_offers,omitempty"`
	PromoCode            *string                   `json:"promo_code,omitempty"`
	LoyaltyPointsSpent   int                       `json:"loyalty_points_spent"`
	LoyaltyPointsEarned  int                       `json:"loyalty_points_earned"`
	Notes                *string                   `json:"notes,omitempty"`
	PickupAt             *time.Time                `json:"pickup_at,omitempty"`
	Items                []OrderLineResponse       `json:"items"`
	AcceptedAt           *time.Time                `json:"accepted_at,omitempty"`
	ReadyAt              *time.Time                `json:"ready_at,omitempty"`
	CompletedAt          *time.Time                `json:"completed_at,omitempty"`
	CanceledAt           *time.Time                `json:"canceled_at,omitempty"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}

// OrderListResponse is one cursor page of orders.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// NewOrderResponse maps the persisted order to its API shape.
func NewOrderResponse(order *models.Order) OrderResponse {
	if order == nil {
		return OrderResponse{}
	}
	items := make([]OrderLineResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineResponse{
			ID:              item.ID,
			MenuItemID:      item.MenuItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			LineTotalCents:  item.LineTotalCents,
			SelectedOptions: item.SelectedOptions,
			BundleInfo:      item.BundleInfo,
			Notes:           item.Notes,
		})
	}
	return OrderResponse{
		ID:                   order.ID,
		TruckID:              order.TruckID,
		CustomerName:         order.CustomerName,
		CustomerEmail:        order.CustomerEmail,
		CustomerPhone:        order.CustomerPhone,
		Status:               string(order.Status),
		Currency:             string(order.Currency),
		SubtotalCents:        order.SubtotalCents,
		OfferDiscountCents:   order.OfferDiscountCents,
		PromoDiscountCents:   order.PromoDiscountCents,
		LoyaltyDiscountCents: order.LoyaltyDiscountCents,
		TotalCents:           order.TotalCents,
		AppliedOffers:        order.AppliedOffers,
		PromoCode:            order.PromoCode,
		LoyaltyPointsSpent:   order.LoyaltyPointsSpent,
		LoyaltyPointsEarned:  order.LoyaltyPointsEarned,
		Notes:                order.Notes,
		PickupAt:             order.PickupAt,
		Items:                items,
		AcceptedAt:           order.AcceptedAt,
		ReadyAt:              order.ReadyAt,
		CompletedAt:          order.CompletedAt,
		CanceledAt:           order.CanceledAt,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

func newOrderListResponse(list *ordersvc.OrderList) OrderListResponse {
	if list == nil {
		return OrderListResponse{}
	}
	out := OrderListResponse{NextCursor: list.NextCursor}
	out.Orders = make([]OrderResponse, 0, len(list.Orders))
	for i := range list.Orders {
		out.Orders = append(out.Orders, NewOrderResponse(&list.Orders[i]))
	}
	return out
}
