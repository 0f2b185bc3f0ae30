package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// OrderEventRow mirrors the order_events BigQuery schema. One row lands
// per order lifecycle event; monetary columns are only populated on
// order_created rows.
type OrderEventRow struct {
	EventID              string             `bigquery:"event_id"`
	EventType            string             `bigquery:"event_type"`
	OccurredAt           time.Time          `bigquery:"occurred_at"`
	OrderID              *string            `bigquery:"order_id"`
	TruckID              *string            `bigquery:"truck_id"`
	CustomerEmail        *string            `bigquery:"customer_email"`
	FromStatus           *string            `bigquery:"from_status"`
	ToStatus             *string            `bigquery:"to_status"`
	CancelReason         *string            `bigquery:"cancel_reason"`
	SubtotalCents        *int64             `bigquery:"subtotal_cents"`
	OfferDiscountCents   *int64             `bigquery:"offer_discount_cents"`
	PromoDiscountCents   *int64             `bigquery:"promo_discount_cents"`
	LoyaltyDiscountCents *int64             `bigquery:"loyalty_discount_cents"`
	TotalCents           *int64             `bigquery:"total_cents"`
	LineCount            *int64             `bigquery:"line_count"`
	AppliedOffers        cbigquery.NullJSON `bigquery:"applied_offers"`
	Payload              cbigquery.NullJSON `bigquery:"payload"`
}

// LoyaltyEventRow mirrors the loyalty_events BigQuery schema.
type LoyaltyEventRow struct {
	EventID       string             `bigquery:"event_id"`
	EventType     string             `bigquery:"event_type"`
	OccurredAt    time.Time          `bigquery:"occurred_at"`
	AccountID     string             `bigquery:"account_id"`
	TruckID       *string            `bigquery:"truck_id"`
	OrderID       *string            `bigquery:"order_id"`
	CustomerEmail *string            `bigquery:"customer_email"`
	Points        int64              `bigquery:"points"`
	NewBalance    int64              `bigquery:"new_balance"`
	ValueCents    *int64             `bigquery:"value_cents"`
	Payload       cbigquery.NullJSON `bigquery:"payload"`
}

// OfferEventRow mirrors the offer_events BigQuery schema.
type OfferEventRow struct {
	EventID       string             `bigquery:"event_id"`
	EventType     string             `bigquery:"event_type"`
	OccurredAt    time.Time          `bigquery:"occurred_at"`
	OfferID       string             `bigquery:"offer_id"`
	TruckID       *string            `bigquery:"truck_id"`
	OrderID       *string            `bigquery:"order_id"`
	OfferType     *string            `bigquery:"offer_type"`
	DiscountCents *int64             `bigquery:"discount_cents"`
	TimesApplied  *int64             `bigquery:"times_applied"`
	ExpiryReason  *string            `bigquery:"expiry_reason"`
	Payload       cbigquery.NullJSON `bigquery:"payload"`
}
