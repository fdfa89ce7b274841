package logger

import (
	"fmt"
	"sync"
)

// MockLogger records formatted messages per level for assertions in tests.
type MockLogger struct {
	mu            sync.Mutex
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		InfoMessages:  make([]string, 0),
		WarnMessages:  make([]string, 0),
		ErrorMessages: make([]string, 0),
	}
}

func (m *MockLogger) Infof(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoMessages = append(m.InfoMessages, fmt.Sprintf(template, args...))
}

func (m *MockLogger) Warnf(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarnMessages = append(m.WarnMessages, fmt.Sprintf(template, args...))
}

func (m *MockLogger) Errorf(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMessages = append(m.ErrorMessages, fmt.Sprintf(template, args...))
}

func (m *MockLogger) Debugf(template string, args ...interface{}) {}

// Fatalf records the message as an error; it never exits.
func (m *MockLogger) Fatalf(template string, args ...interface{}) {
	m.Errorf(template, args...)
}

func (m *MockLogger) Close() error { return nil }
