package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/tadikamesra/tadika-mesra/internal/models"
	"github.com/tadikamesra/tadika-mesra/internal/services"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedBody interface{}
	}{
		{
			name: "success",
			inputBody: RegisterRequest{
				Username: "john",
				Email:    "john@example.com",
				Password: "pass123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "john", "john@example.com", "pass123").
					Return(&models.User{ID: 1, Username: "john", Email: "john@example.com"}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: &models.User{ID: 1, Username: "john", Email: "john@example.com"},
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &RegisterErrorResponse{
				Error: "invalid request body",
			},
		},
		{
			name: "duplicate identity",
			inputBody: RegisterRequest{
				Username: "john",
				Email:    "john@example.com",
				Password: "pass123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "john", "john@example.com", "pass123").
					Return(nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &RegisterErrorResponse{
				Error: "Username or email already exists",
			},
		},
		{
			name: "internal error",
			inputBody: RegisterRequest{
				Username: "john",
				Email:    "john@example.com",
				Password: "pass123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), "john", "john@example.com", "pass123").
					Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: &RegisterErrorResponse{
				Error: "Internal server error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			var bodyBytes []byte
			switch v := tt.inputBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(bodyBytes))
			w := httptest.NewRecorder()

			handler := NewRegisterHandler(mockSvc)
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var respBody interface{}
			switch tt.expectedCode {
			case http.StatusCreated:
				respBody = &models.User{}
			default:
				respBody = &RegisterErrorResponse{}
			}
			err := json.Unmarshal(w.Body.Bytes(), respBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, respBody)
		})
	}
}
