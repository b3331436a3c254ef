package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
)

type stubAuthenticator map[string]*models.User

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, auth.ErrTokenNotFound
}

func TestTokenAuth(t *testing.T) {
	authenticator := stubAuthenticator{"goodtoken": {ID: 5, Username: "chef"}}

	// Create a test handler that echoes the authenticated user
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := auth.UserFromContext(r.Context()); user != nil {
			_, _ = w.Write([]byte(user.Username))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})

	handler := TokenAuth(authenticator, logger.New("error"))(testHandler)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid token",
			header:         "Token goodtoken",
			expectedStatus: http.StatusOK,
			expectedBody:   "chef",
		},
		{
			name:           "scheme is case insensitive",
			header:         "token goodtoken",
			expectedStatus: http.StatusOK,
			expectedBody:   "chef",
		},
		{
			name:           "no header is anonymous",
			header:         "",
			expectedStatus: http.StatusOK,
			expectedBody:   "anonymous",
		},
		{
			name:           "other scheme is anonymous",
			header:         "Bearer goodtoken",
			expectedStatus: http.StatusOK,
			expectedBody:   "anonymous",
		},
		{
			name:           "unknown token",
			header:         "Token wrongtoken",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", w.Code)
	}

	req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: 1}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("authenticated status = %d, want 204", w.Code)
	}
}
