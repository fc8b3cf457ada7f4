package webhook

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tradebio/profile-hub/internal/paypal"
)

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ApplyEvent(ctx context.Context, ev paypal.NormalizedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(discardHandler{})

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "событие активации принимается",
			body: `{"event_type":"BILLING.SUBSCRIPTION.ACTIVATED","resource":{"id":"I-ABC123","custom_id":"uid-1"}}`,
			setupMock: func(m *MockService) {
				m.On("ApplyEvent", mock.Anything, mock.MatchedBy(func(ev paypal.NormalizedEvent) bool {
					return ev.Intent == paypal.IntentActivate && ev.CorrelationID == "uid-1"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"intent":"activate"`,
		},
		{
			name: "неизвестное событие подтверждается",
			body: `{"event_type":"CUSTOMER.DISPUTE.CREATED","resource":{"id":"X-1"}}`,
			setupMock: func(m *MockService) {
				m.On("ApplyEvent", mock.Anything, mock.MatchedBy(func(ev paypal.NormalizedEvent) bool {
					return ev.Intent == paypal.IntentIgnore
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"intent":"ignore"`,
		},
		{
			name:           "мусор в теле подтверждается",
			body:           `this is not json at all`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ignored":true`,
		},
		{
			name:           "пустое тело подтверждается",
			body:           ``,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"ignored":true`,
		},
		{
			name: "отказ хранилища проваливает доставку",
			body: `{"event_type":"PAYMENT.SALE.COMPLETED","resource":{"custom":"uid-1","billing_agreement_id":"I-ABC123"}}`,
			setupMock: func(m *MockService) {
				m.On("ApplyEvent", mock.Anything, mock.Anything).
					Return(errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to process event"`,
		},
		{
			name: "альтернативный ключ имени события",
			body: `{"eventType":"BILLING.SUBSCRIPTION.CANCELLED","resource":{"id":"I-ABC123","custom_id":"uid-1"}}`,
			setupMock: func(m *MockService) {
				m.On("ApplyEvent", mock.Anything, mock.MatchedBy(func(ev paypal.NormalizedEvent) bool {
					return ev.Intent == paypal.IntentDeactivate
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"intent":"deactivate"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
