package mocks

import "github.com/stretchr/testify/mock"

// MockNotifier is a mock of the account email notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendWelcome(email, name string) {
	m.Called(email, name)
}

func (m *MockNotifier) SendCancellation(email, name string) {
	m.Called(email, name)
}
