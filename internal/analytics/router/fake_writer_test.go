package router

import (
	"context"

	"github.com/curbsidehq/curbside-backend/internal/analytics/types"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
)

func testRouterLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "router-test"})
}

type fakeWriter struct {
	orderRows   []types.OrderEventRow
	loyaltyRows []types.LoyaltyEventRow
	offerRows   []types.OfferEventRow
}

func (f *fakeWriter) InsertOrderEvent(_ context.Context, row types.OrderEventRow) error {
	f.orderRows = append(f.orderRows, row)
	return nil
}

func (f *fakeWriter) InsertLoyaltyEvent(_ context.Context, row types.LoyaltyEventRow) error {
	f.loyaltyRows = append(f.loyaltyRows, row)
	return nil
}

func (f *fakeWriter) InsertOfferEvent(_ context.Context, row types.OfferEventRow) error {
	f.offerRows = append(f.offerRows, row)
	return nil
}
