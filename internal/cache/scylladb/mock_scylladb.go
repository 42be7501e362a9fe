// internal/cache/scylladb/mock_scylladb.go
package scylladb

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSession is a mock implementation of the cqlSession interface
type MockSession struct {
	mock.Mock
}

// Query implements cqlSession.Query
func (m *MockSession) Query(stmt string, values ...interface{}) cqlQuery {
	args := m.Called(stmt, values)
	return args.Get(0).(cqlQuery)
}

// Close implements cqlSession.Close
func (m *MockSession) Close() {
	m.Called()
}

// MockQuery is a mock implementation of the cqlQuery interface
type MockQuery struct {
	mock.Mock
}

// WithContext implements cqlQuery.WithContext
func (m *MockQuery) WithContext(ctx context.Context) cqlQuery {
	m.Called(ctx)
	return m
}

// Exec implements cqlQuery.Exec
func (m *MockQuery) Exec() error {
	args := m.Called()
	return args.Error(0)
}

// ScanCAS implements cqlQuery.ScanCAS
func (m *MockQuery) ScanCAS(dest ...interface{}) (bool, error) {
	args := m.Called(dest)
	return args.Bool(0), args.Error(1)
}
