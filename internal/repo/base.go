package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the shared GORM handle that domain repositories embed.
type Base struct {
	db *gorm.DB
}

// NewBase wraps the connection for embedding in a repository.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the handle to ctx. A nil context yields the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
