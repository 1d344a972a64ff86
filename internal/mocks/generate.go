// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces in internal/core. The mocks are generated using
// go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockCustomerRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), "rest-1", gomock.Any()).Return(customer, nil)
package mocks

// Generate mock for CustomerRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=customer_repository_mock.go github.com/comandero/comandero/internal/core CustomerRepository

// Generate mock for OrderRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=order_repository_mock.go github.com/comandero/comandero/internal/core OrderRepository
