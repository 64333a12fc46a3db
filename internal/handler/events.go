package handler

import (
	"context"
	"log"

	"github.com/dinehub/restaurant-api/internal/ws"
	"github.com/google/uuid"
)

// OrderEvents is told about every order change.
type OrderEvents interface {
	OrderChanged(ctx context.Context, eventType string, branchID uuid.UUID, payload any)
}

// Broadcaster is satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToBranch(branchID uuid.UUID, event ws.Event)
}

// StatsInvalidator is satisfied by *service.StatisticsService.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// OrderPublisher pushes order changes to connected dashboards and drops cached
// statistics.
type OrderPublisher struct {
	hub   Broadcaster
	stats StatsInvalidator
}

// NewOrderPublisher creates an OrderPublisher. Either dependency may be nil.
func NewOrderPublisher(hub Broadcaster, stats StatsInvalidator) *OrderPublisher {
	return &OrderPublisher{hub: hub, stats: stats}
}

func (p *OrderPublisher) OrderChanged(ctx context.Context, eventType string, branchID uuid.UUID, payload any) {
	if p.stats != nil {
		p.stats.Invalidate(ctx)
	}
	if p.hub == nil {
		return
	}
	event, err := ws.NewEvent(eventType, payload)
	if err != nil {
		log.Printf("ERROR: encode %s event: %v", eventType, err)
		return
	}
	p.hub.BroadcastToBranch(branchID, event)
}
