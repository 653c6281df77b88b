package publisher

import (
	"context"
	"time"
)

// Run publishes the current week immediately and then every interval until ctx is done.
// Publication errors are logged and retried at the next tick.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	s.publishOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.publishOnce(ctx)
		}
	}
}

func (s *Service) publishOnce(ctx context.Context) {
	if _, err := s.PublishWeekly(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("weekly publication failed")
	}
}
