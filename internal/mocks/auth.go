package mocks

import (
	"context"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of the auth API
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, creds model.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, reg model.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockAuthService) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockSessionStore is a mock implementation of the session writer
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, token, username string) error {
	args := m.Called(ctx, token, username)
	return args.Error(0)
}
