package controller

import (
	"context"
	"fmt"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// Record shows whatever payload it was last handed.
type Record struct {
	bound
	payload domain.Payload
}

func (c *Record) SetPayload(p domain.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = p
}

func (c *Record) Caption(context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch p := c.payload.(type) {
	case nil:
		return ""
	case *domain.Opaque:
		return fmt.Sprintf("%s: %v", p.Label, p.Value)
	case interface {
		domain.Payload
		Base() *domain.Account
	}:
		return fmt.Sprintf("%s account %s", p.Kind(), p.Base().UserName)
	default:
		return p.Kind().String()
	}
}
