package service

import (
	"context"
	"fmt"
)

// Reset wipes every widget under the exclusive lock. Z assignment starts over
// from the initial index afterwards.
func (s *WidgetService) Reset(ctx context.Context) (Ack, error) {
	s.log.Info("reset widgets")
	lease, err := s.acquire(ctx, "reset", true)
	if err != nil {
		return Ack{}, err
	}
	defer lease.Release()

	if err := s.store.Reset(ctx); err != nil {
		return Ack{}, fmt.Errorf("reset: %w", err)
	}
	return Ack{BestEffort: !lease.Held()}, nil
}
