package utils

import "github.com/google/uuid"

// NewID 实体主键 / 会话 ID
func NewID() string { return uuid.NewString() }
