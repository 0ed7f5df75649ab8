package session

import (
	"time"
)

// --- 倒计时 ---

// startTimer arms a fresh tick task for a new generation. Must hold mu.
func (s *Session) startTimer() {
	if s.closed {
		return
	}

	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.generation++
	s.scheduleTick(s.generation)
}

// scheduleTick queues the next tick for gen. Must hold timerMu.
func (s *Session) scheduleTick(gen uint64) {
	s.tickTimer = time.AfterFunc(s.tickInterval, func() {
		s.handleTick(gen)
	})
}

// stopTimer retires the current generation so a tick already in flight is
// dropped when it gets the lock. Must hold mu.
func (s *Session) stopTimer() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.generation++
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

func (s *Session) handleTick(gen uint64) {
	s.mu.Lock()

	s.timerMu.Lock()
	stale := gen != s.generation
	s.timerMu.Unlock()
	if stale || s.closed || !s.state.Timer.Active {
		s.mu.Unlock()
		return
	}

	next, events := s.state.Tick()
	s.state = next

	if next.Timer.Active {
		s.timerMu.Lock()
		s.scheduleTick(gen)
		s.timerMu.Unlock()
	} else {
		s.stopTimer()
	}

	snapshot := copyState(next)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.notify(events, snapshot)
}

// timerGeneration returns the current countdown generation.
func (s *Session) timerGeneration() uint64 {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	return s.generation
}
