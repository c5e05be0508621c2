package editor

import (
	"context"
	"time"
)

// RunCountdown decrements the preview countdown once per interval until it
// reaches zero or ctx is cancelled. onTick, if set, receives each new value.
// Changing the timer duration while running restarts from the new value.
func (s *State) RunCountdown(ctx context.Context, interval time.Duration, onTick func(remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining, done := s.tick()
			if onTick != nil {
				onTick(remaining)
			}
			if done {
				return
			}
		}
	}
}

func (s *State) tick() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remaining > 0 {
		s.remaining--
	}
	return s.remaining, s.remaining == 0
}
