package cancel

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradebio/profile-hub/internal/http/middlewarectx"
	"github.com/tradebio/profile-hub/internal/services/billing"
	"github.com/tradebio/profile-hub/internal/storage/repository"
)

// MockService реализует интерфейс cancel.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Cancel(ctx context.Context, accountUID, subscriptionID string) error {
	args := m.Called(ctx, accountUID, subscriptionID)
	return args.Error(0)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func TestCancelHandler(t *testing.T) {
	logger := slog.New(discardHandler{})

	tests := []struct {
		name           string
		accountUID     string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная отмена",
			accountUID:  "uid-1",
			requestBody: Request{SubscriptionID: "I-ABC123"},
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "uid-1", "I-ABC123").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"inactive"`,
		},
		{
			name:        "провайдер недоступен",
			accountUID:  "uid-1",
			requestBody: Request{SubscriptionID: "I-ABC123"},
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "uid-1", "I-ABC123").
					Return(billing.ErrProviderUnavailable)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"error":"payment provider unavailable"`,
		},
		{
			name:        "запись не найдена",
			accountUID:  "uid-1",
			requestBody: Request{SubscriptionID: "I-UNKNOWN"},
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "uid-1", "I-UNKNOWN").
					Return(repository.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"subscription not found"`,
		},
		{
			name:           "отсутствует авторизация",
			accountUID:     "",
			requestBody:    Request{SubscriptionID: "I-ABC123"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/billing/subscription", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			if tt.accountUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.AccountUID, tt.accountUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
