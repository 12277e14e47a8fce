package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLogSource is a mock implementation of LogSource for testing.
type MockLogSource struct {
	mock.Mock
}

var _ LogSource = &MockLogSource{} // Compile-time check

// ResolveDir implements the LogSource interface.
func (m *MockLogSource) ResolveDir(ctx context.Context, dir string) (string, error) {
	args := m.Called(ctx, dir)
	return args.String(0), args.Error(1)
}

// ListUsers implements the LogSource interface.
func (m *MockLogSource) ListUsers(ctx context.Context, dir string) ([]string, error) {
	args := m.Called(ctx, dir)
	users, _ := args.Get(0).([]string)
	return users, args.Error(1)
}

// ReadUserLog implements the LogSource interface.
func (m *MockLogSource) ReadUserLog(ctx context.Context, dir string, user string) ([]byte, error) {
	args := m.Called(ctx, dir, user)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// ReadAllLogs implements the LogSource interface.
func (m *MockLogSource) ReadAllLogs(ctx context.Context, dir string) ([]byte, error) {
	args := m.Called(ctx, dir)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// ClearUserLog implements the LogSource interface.
func (m *MockLogSource) ClearUserLog(ctx context.Context, dir string, user string) error {
	args := m.Called(ctx, dir, user)
	return args.Error(0)
}

// MockPriceClient is a mock implementation of PriceClient for testing.
type MockPriceClient struct {
	mock.Mock
}

var _ PriceClient = &MockPriceClient{} // Compile-time check

// LatestUpdate implements the PriceClient interface.
func (m *MockPriceClient) LatestUpdate(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

// AllPrices implements the PriceClient interface.
func (m *MockPriceClient) AllPrices(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	prices, _ := args.Get(0).(map[string]int64)
	return prices, args.Error(1)
}
