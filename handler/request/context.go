package request

import (
	"context"
)

type key int

const (
	userKey key = iota
)

type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithUser context with user id
func (c ContextX) WithUser(userID string) context.Context {
	return context.WithValue(c, userKey, userID)
}

// GetUser get user id from context
func (c ContextX) GetUser() (string, bool) {
	userID, ok := c.Value(userKey).(string)
	return userID, ok && userID != ""
}
