// services/scheduler.go
package services

import (
	"log"
	"time"

	"chess-tournament-system/chess"
	"chess-tournament-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartMatchScheduler runs the two background sweeps: auto-starting
// scheduled matches whose start time has passed, and confirming flag
// falls server-side so a game never depends on a client claim.
func (s *MatchService) StartMatchScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: start overdue scheduled matches.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var matches []models.Match
			now := time.Now()
			err := s.DB.Where("status = ? AND start_time IS NOT NULL AND start_time <= ?",
				models.MatchScheduled, now).
				Find(&matches).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for i := range matches {
				s.autoStart(&matches[i], now)
			}
		}),
	)

	// Every 30 seconds: sweep active sessions for fallen flags.
	_, _ = sched.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() {
			var sessions []models.GameSession
			err := s.DB.Where("game_status = ?", models.SessionActive).
				Find(&sessions).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for i := range sessions {
				s.sweepTimeout(sessions[i].MatchID)
			}
		}),
	)
}

func (s *MatchService) autoStart(match *models.Match, now time.Time) {
	unlock := lockMatch(match.ID)
	defer unlock()

	// Re-read under the lock; a player may have started it meanwhile.
	fresh, err := s.loadMatch(match.ID)
	if err != nil {
		log.Printf("[Scheduler] Failed to reload match %s: %v", match.ID, err)
		return
	}
	if fresh.Status != models.MatchScheduled {
		return
	}
	tournament, err := s.loadTournament(fresh.TournamentID)
	if err != nil {
		log.Printf("[Scheduler] Failed to load tournament for match %s: %v", fresh.ID, err)
		return
	}
	if _, err := s.startLocked(fresh, tournament, chess.DefaultTimeControl, now); err != nil {
		log.Printf("[Scheduler] Failed to auto-start match %s: %v", fresh.ID, err)
		return
	}
	log.Printf("✅ Auto-started match %s (round %d, game %d)", fresh.ID, fresh.Round, fresh.MatchNumber)
}

func (s *MatchService) sweepTimeout(matchID string) {
	unlock := lockMatch(matchID)
	defer unlock()

	now := time.Now()
	session, err := s.loadSession(matchID)
	if err != nil {
		log.Printf("[Scheduler] Failed to reload session for match %s: %v", matchID, err)
		return
	}
	if !session.FlagFallen(now) {
		return
	}
	match, err := s.loadMatch(matchID)
	if err != nil {
		log.Printf("[Scheduler] Failed to reload match %s: %v", matchID, err)
		return
	}
	if match.Status != models.MatchActive {
		return
	}
	if err := s.finalizeTimeout(match, session, now); err != nil {
		log.Printf("[Scheduler] Failed to finalize timeout for match %s: %v", matchID, err)
	}
}
