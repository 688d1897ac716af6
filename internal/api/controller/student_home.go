package controller

import (
	"context"
	"fmt"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

// StudentHome backs the student kiosk landing view.
type StudentHome struct {
	bound
	student *domain.Student
	last    *domain.Opaque
}

func (c *StudentHome) SetStudent(s *domain.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.student = s
}

// SetPayload keeps the latest opaque record (a receipt, a redemption) for display.
func (c *StudentHome) SetPayload(p domain.Payload) {
	o, ok := p.(*domain.Opaque)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = o
}

func (c *StudentHome) Student() *domain.Student {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.student
}

func (c *StudentHome) Caption(context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.student == nil {
		return ""
	}
	caption := "Hello, " + displayName(&c.student.Account)
	if c.last != nil {
		caption += fmt.Sprintf(". Latest %s: %v", c.last.Label, c.last.Value)
	}
	return caption
}
