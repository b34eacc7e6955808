// internal/handlers/inventory_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/handlers"
	"github.com/gajahnusa/retail-be/test/helpers"
	"github.com/gajahnusa/retail-be/test/mocks"
)

func TestInventoryHandler_AdjustStock(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_adjusts_stock_in",
			requestBody: handlers.AdjustRequest{
				StoreID:   1,
				ProductID: 3,
				Mode:      "in",
				Quantity:  20,
				Reason:    "supplier delivery",
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					Adjust(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, params ports.AdjustParams) (*domain.AdjustmentResult, error) {
						assert.Equal(t, int64(1), params.StoreID)
						assert.Equal(t, int64(3), params.ProductID)
						assert.Equal(t, domain.AdjustIn, params.Mode)
						assert.Equal(t, 20, params.Quantity)
						return &domain.AdjustmentResult{Previous: 50, New: 70}, nil
					})
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.AdjustmentResult
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, 50, response.Previous)
				assert.Equal(t, 70, response.New)
			},
		},
		{
			name:           "invalid_json_body",
			requestBody:    "not json",
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "invalid request body", response["error"])
			},
		},
		{
			name: "unknown_adjustment_mode",
			requestBody: handlers.AdjustRequest{
				StoreID:   1,
				ProductID: 3,
				Mode:      "sideways",
				Quantity:  5,
			},
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient_stock_maps_to_conflict",
			requestBody: handlers.AdjustRequest{
				StoreID:   1,
				ProductID: 3,
				Mode:      "out",
				Quantity:  999,
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					Adjust(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrInsufficientStock)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown_record_maps_to_not_found",
			requestBody: handlers.AdjustRequest{
				StoreID:   1,
				ProductID: 99,
				Mode:      "out",
				Quantity:  1,
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					Adjust(gomock.Any(), gomock.Any()).
					Return(nil, domain.NotFoundError("inventory record", "1/99"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "service_error",
			requestBody: handlers.AdjustRequest{
				StoreID:   1,
				ProductID: 3,
				Mode:      "in",
				Quantity:  5,
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					Adjust(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "internal server error", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest("POST", "/api/v1/inventory/adjust", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.AdjustStock(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestInventoryHandler_ListInventory(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_lists_inventory",
			queryParams: map[string]string{
				"store_id": "1",
				"limit":    "10",
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, filter ports.InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error) {
						assert.Equal(t, int64(1), filter.StoreID)
						assert.Equal(t, 10, filter.Limit)
						return []domain.StoreInventoryRecord{*helpers.CreateTestInventoryRecord()}, 1, nil
					})
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					Data  []domain.StoreInventoryRecord `json:"data"`
					Total int64                         `json:"total"`
				}
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Len(t, response.Data, 1)
				assert.Equal(t, int64(1), response.Total)
			},
		},
		{
			name:           "missing_store_id",
			queryParams:    map[string]string{},
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "store_id is required", response["error"])
			},
		},
		{
			name: "filters_low_stock",
			queryParams: map[string]string{
				"store_id":  "2",
				"low_stock": "true",
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, filter ports.InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error) {
						assert.True(t, filter.LowStock)
						return []domain.StoreInventoryRecord{}, 0, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "caps_limit_at_100",
			queryParams: map[string]string{
				"store_id": "1",
				"limit":    "500",
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, filter ports.InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error) {
						assert.Equal(t, 100, filter.Limit)
						return []domain.StoreInventoryRecord{}, 0, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "service_error",
			queryParams: map[string]string{
				"store_id": "1",
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					List(gomock.Any(), gomock.Any()).
					Return(nil, int64(0), errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/inventory", nil)
			q := req.URL.Query()
			for k, v := range tt.queryParams {
				q.Add(k, v)
			}
			req.URL.RawQuery = q.Encode()

			w := httptest.NewRecorder()

			handler.ListInventory(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestInventoryHandler_ListMovements(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
	}{
		{
			name: "filters_by_scope_and_type",
			queryParams: map[string]string{
				"scope": "store",
				"type":  "sale",
			},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					ListMovements(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, filter ports.MovementListFilter) ([]domain.StockMovement, int64, error) {
						require.NotNil(t, filter.Scope)
						assert.Equal(t, domain.ScopeStore, *filter.Scope)
						require.NotNil(t, filter.Type)
						assert.Equal(t, domain.MovementSale, *filter.Type)
						return []domain.StockMovement{}, 0, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "rejects_unknown_scope",
			queryParams: map[string]string{
				"scope": "galaxy",
			},
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "lists_without_filters",
			queryParams: map[string]string{},
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					ListMovements(gomock.Any(), gomock.Any()).
					Return([]domain.StockMovement{}, int64(0), nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/movements", nil)
			q := req.URL.Query()
			for k, v := range tt.queryParams {
				q.Add(k, v)
			}
			req.URL.RawQuery = q.Encode()

			w := httptest.NewRecorder()

			handler.ListMovements(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
