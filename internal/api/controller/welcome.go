package controller

import (
	"context"
	"strings"

	"github.com/cafeteria/portal-system/internal/core/domain"
)

type Welcome struct {
	bound
}

func (c *Welcome) Caption(context.Context) string {
	names := make([]string, 0, len(domain.Portals))
	for _, p := range domain.Portals {
		if p != domain.PortalGeneral {
			names = append(names, string(p))
		}
	}
	return "Available portals: " + strings.Join(names, ", ")
}
