package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/api/middleware"
	ordersvc "github.com/curbsidehq/curbside-backend/internal/orders"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/pagination"
)

type stubOrdersService struct {
	get        func(ctx context.Context, truckID, orderID uuid.UUID) (*models.Order, error)
	list       func(ctx context.Context, truckID uuid.UUID, params pagination.Params, filters ordersvc.ListFilters) (*ordersvc.OrderList, error)
	transition func(ctx context.Context, input ordersvc.TransitionInput) (*models.Order, error)
}

func (s stubOrdersService) Get(ctx context.Context, truckID, orderID uuid.UUID) (*models.Order, error) {
	if s.get != nil {
		return s.get(ctx, truckID, orderID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s stubOrdersService) List(ctx context.Context, truckID uuid.UUID, params pagination.Params, filters ordersvc.ListFilters) (*ordersvc.OrderList, error) {
	if s.list != nil {
		return s.list(ctx, truckID, params, filters)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s stubOrdersService) Transition(ctx context.Context, input ordersvc.TransitionInput) (*models.Order, error) {
	if s.transition != nil {
		return s.transition(ctx, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func newOrdersRouter(svc ordersvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/orders", List(svc, nil))
	r.Get("/orders/{orderID}", Detail(svc, nil))
	r.Post("/orders/{orderID}/status", UpdateStatus(svc, nil))
	return r
}

func withActor(req *http.Request, truckID, userID uuid.UUID, role enums.MemberRole) *http.Request {
	ctx := middleware.WithTruckID(req.Context(), truckID.String())
	ctx = middleware.WithUserID(ctx, userID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func TestOrdersListForwardsFilters(t *testing.T) {
	t.Parallel()

	truckID := uuid.New()
	var gotParams pagination.Params
	var gotFilters ordersvc.ListFilters
	svc := stubOrdersService{
		list: func(ctx context.Context, id uuid.UUID, params pagination.Params, filters ordersvc.ListFilters) (*ordersvc.OrderList, error) {
			if id != truckID {
				t.Fatalf("expected truck %s got %s", truckID, id)
			}
			gotParams = params
			gotFilters = filters
			return &ordersvc.OrderList{
				Orders:     []models.Order{{ID: uuid.New(), TruckID: id, Status: enums.OrderStatusPreparing}},
				NextCursor: "next-page",
			}, nil
		},
	}
	router := newOrdersRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders?limit=10&status=preparing&cursor=abc", nil)
	req = withActor(req, truckID, uuid.New(), enums.MemberRoleManager)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if gotParams.Limit != 10 || gotParams.Cursor != "abc" {
		t.Fatalf("unexpected params: %+v", gotParams)
	}
	if gotFilters.Status == nil || *gotFilters.Status != enums.OrderStatusPreparing {
		t.Fatalf("unexpected filters: %+v", gotFilters)
	}

	var envelope struct {
		Data OrderListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.NextCursor != "next-page" {
		t.Fatalf("expected cursor forwarded, got %q", envelope.Data.NextCursor)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("expected 1 order got %d", len(envelope.Data.Orders))
	}
}

func TestOrdersListRejectsUnknownStatus(t *testing.T) {
	router := newOrdersRouter(stubOrdersService{})
	req := httptest.NewRequest(http.MethodGet, "/orders?status=shipped", nil)
	req = withActor(req, uuid.New(), uuid.New(), enums.MemberRoleManager)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", resp.Code)
	}
}

func TestOrdersListRequiresTruckContext(t *testing.T) {
	router := newOrdersRouter(stubOrdersService{})
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without truck context got %d", resp.Code)
	}
}

func TestOrderDetailScopedToTruck(t *testing.T) {
	truckID := uuid.New()
	orderID := uuid.New()
	svc := stubOrdersService{
		get: func(ctx context.Context, tID, oID uuid.UUID) (*models.Order, error) {
			if tID != truckID || oID != orderID {
				t.Fatalf("unexpected lookup: %s %s", tID, oID)
			}
			return &models.Order{ID: oID, TruckID: tID, Status: enums.OrderStatusReady}, nil
		},
	}
	router := newOrdersRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	req = withActor(req, truckID, uuid.New(), enums.MemberRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateStatusForwardsActor(t *testing.T) {
	truckID := uuid.New()
	orderID := uuid.New()
	actorID := uuid.New()

	var captured ordersvc.TransitionInput
	svc := stubOrdersService{
		transition: func(ctx context.Context, input ordersvc.TransitionInput) (*models.Order, error) {
			captured = input
			return &models.Order{ID: input.OrderID, TruckID: input.TruckID, Status: input.Target}, nil
		},
	}
	router := newOrdersRouter(svc)

	reason := `{"status":"canceled","reason":"customer no-show"}`
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/status", strings.NewReader(reason))
	req.Header.Set("Content-Type", "application/json")
	req = withActor(req, truckID, actorID, enums.MemberRoleOwner)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if captured.OrderID != orderID || captured.TruckID != truckID {
		t.Fatalf("unexpected scope: %+v", captured)
	}
	if captured.Target != enums.OrderStatusCanceled {
		t.Fatalf("expected canceled target got %s", captured.Target)
	}
	if captured.ActorUserID != actorID || captured.ActorRole != string(enums.MemberRoleOwner) {
		t.Fatalf("unexpected actor: %+v", captured)
	}
	if captured.Reason == nil || *captured.Reason != "customer no-show" {
		t.Fatalf("expected reason forwarded, got %+v", captured.Reason)
	}
}

func TestUpdateStatusSurfacesIllegalTransition(t *testing.T) {
	svc := stubOrdersService{
		transition: func(ctx context.Context, input ordersvc.TransitionInput) (*models.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move completed order to preparing")
		},
	}
	router := newOrdersRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"preparing"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withActor(req, uuid.New(), uuid.New(), enums.MemberRoleStaff)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for illegal transition got %d", resp.Code)
	}
}
