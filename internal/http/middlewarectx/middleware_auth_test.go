package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	libjwt "github.com/tradebio/profile-hub/internal/lib/jwt"
)

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

type mockValidator struct {
	ValidateFunc func(ctx context.Context, token string) (*libjwt.CustomClaims, error)
}

func (m *mockValidator) ValidateToken(ctx context.Context, token string) (*libjwt.CustomClaims, error) {
	return m.ValidateFunc(ctx, token)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(discardHandler{})

	tests := []struct {
		name           string
		authHeader     string
		validator      *mockValidator
		expectedStatus int
		wantUser       string
		wantUID        string
	}{
		{
			name:       "валидный токен кладёт claims в контекст",
			authHeader: "Bearer valid-token",
			validator: &mockValidator{
				ValidateFunc: func(_ context.Context, token string) (*libjwt.CustomClaims, error) {
					assert.Equal(t, "valid-token", token)
					return &libjwt.CustomClaims{Username: "testuser", AccountUID: "uid-1"}, nil
				},
			},
			expectedStatus: http.StatusOK,
			wantUser:       "testuser",
			wantUID:        "uid-1",
		},
		{
			name:       "отсутствует заголовок",
			authHeader: "",
			validator: &mockValidator{
				ValidateFunc: func(_ context.Context, _ string) (*libjwt.CustomClaims, error) {
					t.Fatal("validator must not be called without a header")
					return nil, nil
				},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "не Bearer схема",
			authHeader: "Basic dXNlcjpwYXNz",
			validator: &mockValidator{
				ValidateFunc: func(_ context.Context, _ string) (*libjwt.CustomClaims, error) {
					t.Fatal("validator must not be called for non-bearer auth")
					return nil, nil
				},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "просроченный токен",
			authHeader: "Bearer expired-token",
			validator: &mockValidator{
				ValidateFunc: func(_ context.Context, _ string) (*libjwt.CustomClaims, error) {
					return nil, errors.New("token has invalid claims: token is expired")
				},
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = r.Context().Value(User).(string)
				gotUID, _ = r.Context().Value(AccountUID).(string)
				w.WriteHeader(http.StatusOK)
			})

			mw := JWTMiddleware(tt.validator, logger)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/status", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			mw(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			assert.Equal(t, tt.wantUID, gotUID)
		})
	}
}
