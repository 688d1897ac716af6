package controller

import (
	"context"
	"fmt"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// Login backs the sign-in view. Credential checks happen in the login flow;
// the controller only shows the last notice it was handed.
type Login struct {
	bound
	notice string
}

func (c *Login) SetPayload(p domain.Payload) {
	o, ok := p.(*domain.Opaque)
	if !ok || o.Label != domain.NoticeLabel {
		return
	}
	c.mu.Lock()
	c.notice = fmt.Sprint(o.Value)
	c.mu.Unlock()
}

func (c *Login) Caption(context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}
