package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"chess-tournament-system/chess"
	"chess-tournament-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchService owns the match lifecycle state machine and the embedded
// game session. All Match/GameSession writes go through it.
type MatchService struct {
	DB      *gorm.DB
	Archive *ArchiveService
}

func NewMatchService(db *gorm.DB, archive *ArchiveService) *MatchService {
	return &MatchService{DB: db, Archive: archive}
}

// CreateMatchRequest is the body for match creation.
type CreateMatchRequest struct {
	Round       int    `json:"round"`
	MatchNumber int    `json:"match_number"`
	Player1ID   string `json:"player1_id"`
	Player2ID   string `json:"player2_id"`
	StartTime   string `json:"start_time,omitempty"` // RFC3339, optional
}

// CreateMatch creates a scheduled match. Tournament owner only.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	var req CreateMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Round <= 0 || req.MatchNumber <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "round and match_number must be positive"})
	}
	if req.Player1ID == "" || req.Player2ID == "" || req.Player1ID == req.Player2ID {
		return c.Status(400).JSON(fiber.Map{"error": "two distinct player ids are required"})
	}

	var startTime *time.Time
	if req.StartTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid start_time (use RFC3339)"})
		}
		startTime = &t
	}

	tournament, err := s.loadTournament(tournamentID)
	if err != nil {
		return respondError(c, err)
	}
	if tournament.OwnerID != userID {
		return respondError(c, fmt.Errorf("%w: only the tournament owner can create matches", models.ErrAuthorizationDenied))
	}

	match := &models.Match{
		ID:           uuid.NewString(),
		TournamentID: tournament.ID,
		Round:        req.Round,
		MatchNumber:  req.MatchNumber,
		Player1ID:    req.Player1ID,
		Player1Name:  s.participantName(tournament.ID, req.Player1ID),
		Player2ID:    req.Player2ID,
		Player2Name:  s.participantName(tournament.ID, req.Player2ID),
		Status:       models.MatchScheduled,
		StartTime:    startTime,
	}
	if err := s.DB.Create(match).Error; err != nil {
		log.Printf("DB Error creating match for tournament %s: %v", tournament.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create match"})
	}
	return c.Status(201).JSON(match)
}

// StartMatchRequest optionally overrides the default time control.
type StartMatchRequest struct {
	TimeControl *chess.TimeControl `json:"time_control,omitempty"`
}

// StartMatch activates a scheduled match and, for game types with an
// embedded engine, spawns its game session. Tournament owner or either
// assigned player.
func (s *MatchService) StartMatch(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	var req StartMatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
	}
	tc := chess.DefaultTimeControl
	if req.TimeControl != nil {
		if req.TimeControl.InitialSec <= 0 || req.TimeControl.IncrementSec < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "invalid time_control"})
		}
		tc = *req.TimeControl
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	tournament, err := s.loadTournament(match.TournamentID)
	if err != nil {
		return respondError(c, err)
	}
	if tournament.OwnerID != userID && !match.HasPlayer(userID) {
		return respondError(c, fmt.Errorf("%w: only the owner or an assigned player can start the match", models.ErrAuthorizationDenied))
	}

	session, err := s.startLocked(match, tournament, tc, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"match": match}
	if session != nil {
		resp["game_session"] = session
	}
	return c.JSON(resp)
}

// startLocked performs the scheduled→active transition and session
// spawn. Caller must hold the match lock.
func (s *MatchService) startLocked(match *models.Match, tournament *models.Tournament, tc chess.TimeControl, now time.Time) (*models.GameSession, error) {
	if match.Status != models.MatchScheduled {
		return nil, fmt.Errorf("%w: match is %s, want scheduled", models.ErrInvalidState, match.Status)
	}

	var session *models.GameSession
	if tournament.RequiresGameSession() {
		var existing models.GameSession
		err := s.DB.First(&existing, "match_id = ?", match.ID).Error
		if err == nil {
			return nil, fmt.Errorf("%w: game session for match %s", models.ErrAlreadyExists, match.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		session = models.NewGameSession(uuid.NewString(), match.ID, match.Player1ID, match.Player2ID, tc, now)
	}

	if err := match.Begin(now); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(match).Error; err != nil {
			return err
		}
		if session != nil {
			if err := tx.Create(session).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("▶️  Match %s started (round %d, game %d)", match.ID, match.Round, match.MatchNumber)
	return session, nil
}

// MoveRequest is the move submission wire shape. Payload is an opaque
// client blob mirrored onto the match record without inspection; the
// server trusts only its own board, clocks and turn state.
type MoveRequest struct {
	From    chess.Square `json:"from"`
	To      chess.Square `json:"to"`
	Payload string       `json:"payload,omitempty"`
}

// SubmitMove commits one move for the calling player.
func (s *MatchService) SubmitMove(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if !req.From.InBounds() || !req.To.InBounds() {
		return c.Status(400).JSON(fiber.Map{"error": "from/to row and col must be in [0,7]"})
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	if match.Status != models.MatchActive {
		return respondError(c, fmt.Errorf("%w: match is %s, want active", models.ErrInvalidState, match.Status))
	}
	session, err := s.loadSession(matchID)
	if err != nil {
		return respondError(c, err)
	}

	notation, err := session.CommitMove(userID, req.From, req.To, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	match.GamePayload = req.Payload

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		return tx.Save(match).Error
	})
	if err != nil {
		log.Printf("DB Error persisting move %s on match %s: %v", notation, matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to persist move"})
	}

	return c.JSON(fiber.Map{
		"notation":            notation,
		"current_player":      session.CurrentPlayer,
		"white_remaining_sec": session.WhiteRemainingSec,
		"black_remaining_sec": session.BlackRemainingSec,
		"move_count":          len(session.Moves()),
	})
}

// Resign ends the game for the calling player; the opponent wins and
// the match completes immediately.
func (s *MatchService) Resign(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	if match.Status != models.MatchActive {
		return respondError(c, fmt.Errorf("%w: match is %s, want active", models.ErrInvalidState, match.Status))
	}
	if !match.HasPlayer(userID) {
		return respondError(c, fmt.Errorf("%w: only an assigned player can resign", models.ErrAuthorizationDenied))
	}
	session, err := s.loadSession(matchID)
	if err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	winnerID, err := session.ResignBy(userID)
	if err != nil {
		return respondError(c, err)
	}
	if err := match.Complete(winnerID, nil, nil, now); err != nil {
		return respondError(c, err)
	}

	if err := s.saveMatchAndSession(match, session); err != nil {
		log.Printf("DB Error persisting resignation on match %s: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to persist resignation"})
	}
	go s.Archive.ArchiveMatch(match.ID)

	return c.JSON(fiber.Map{"match": match, "game_status": session.GameStatus, "winner_id": winnerID})
}

// EndMatchRequest is the explicit completion body.
type EndMatchRequest struct {
	WinnerID     string `json:"winner_id,omitempty"`
	Player1Score *int64 `json:"player1_score,omitempty"`
	Player2Score *int64 `json:"player2_score,omitempty"`
}

// EndMatch completes a match with an explicit outcome. Owner only.
// The game session, if any, is left to its own status; the match is
// the final source of truth for the outcome.
func (s *MatchService) EndMatch(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	var req EndMatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	tournament, err := s.loadTournament(match.TournamentID)
	if err != nil {
		return respondError(c, err)
	}
	if tournament.OwnerID != userID {
		return respondError(c, fmt.Errorf("%w: only the tournament owner can end a match", models.ErrAuthorizationDenied))
	}

	if err := match.Complete(req.WinnerID, req.Player1Score, req.Player2Score, time.Now()); err != nil {
		return respondError(c, err)
	}
	if err := s.DB.Save(match).Error; err != nil {
		log.Printf("DB Error completing match %s: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to complete match"})
	}
	go s.Archive.ArchiveMatch(match.ID)

	return c.JSON(match)
}

// ClaimTimeout lets a player claim the opponent's flag fell. The claim
// is confirmed by server-side clock recomputation; client ticking
// carries no authority.
func (s *MatchService) ClaimTimeout(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	if !match.HasPlayer(userID) {
		return respondError(c, fmt.Errorf("%w: only an assigned player can claim a timeout", models.ErrAuthorizationDenied))
	}
	if match.Status != models.MatchActive {
		return respondError(c, fmt.Errorf("%w: match is %s, want active", models.ErrInvalidState, match.Status))
	}
	session, err := s.loadSession(matchID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.finalizeTimeout(match, session, time.Now()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"match": match, "game_status": session.GameStatus, "winner_id": match.WinnerID})
}

// finalizeTimeout confirms a flag fall and completes the match. Caller
// must hold the match lock.
func (s *MatchService) finalizeTimeout(match *models.Match, session *models.GameSession, now time.Time) error {
	winnerID, err := session.MarkTimeout(now)
	if err != nil {
		return err
	}
	if err := match.Complete(winnerID, nil, nil, now); err != nil {
		return err
	}
	if err := s.saveMatchAndSession(match, session); err != nil {
		return err
	}
	log.Printf("⏱️  Match %s finished on time, winner %s", match.ID, winnerID)
	go s.Archive.ArchiveMatch(match.ID)
	return nil
}

// OfferDraw records a draw offer by the calling player.
func (s *MatchService) OfferDraw(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	if match.Status != models.MatchActive {
		return respondError(c, fmt.Errorf("%w: match is %s, want active", models.ErrInvalidState, match.Status))
	}
	session, err := s.loadSession(matchID)
	if err != nil {
		return respondError(c, err)
	}
	if err := session.OfferDraw(userID); err != nil {
		return respondError(c, err)
	}
	if err := s.DB.Save(session).Error; err != nil {
		log.Printf("DB Error persisting draw offer on match %s: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to persist draw offer"})
	}
	return c.JSON(fiber.Map{"draw_offer_by": session.DrawOfferBy})
}

// AcceptDraw accepts the opponent's standing draw offer and completes
// the match without a winner.
func (s *MatchService) AcceptDraw(c *fiber.Ctx) error {
	matchID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	unlock := lockMatch(matchID)
	defer unlock()

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	if match.Status != models.MatchActive {
		return respondError(c, fmt.Errorf("%w: match is %s, want active", models.ErrInvalidState, match.Status))
	}
	session, err := s.loadSession(matchID)
	if err != nil {
		return respondError(c, err)
	}

	if err := session.AcceptDraw(userID); err != nil {
		return respondError(c, err)
	}
	if err := match.Complete("", nil, nil, time.Now()); err != nil {
		return respondError(c, err)
	}
	if err := s.saveMatchAndSession(match, session); err != nil {
		log.Printf("DB Error persisting draw on match %s: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to persist draw"})
	}
	go s.Archive.ArchiveMatch(match.ID)

	return c.JSON(fiber.Map{"match": match, "game_status": session.GameStatus})
}

// GetMatch returns the match record.
func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	match, err := s.loadMatch(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(match)
}

// GetMatchState returns the full live view for polling consumers:
// board, turn, authoritative clocks, move history and match outcome.
// Clients may tick a local countdown from last_move_at, but only the
// server-recomputed values decide anything.
func (s *MatchService) GetMatchState(c *fiber.Ctx) error {
	matchID := c.Params("id")

	match, err := s.loadMatch(matchID)
	if err != nil {
		return respondError(c, err)
	}
	session, err := s.loadSession(matchID)
	if err != nil {
		return respondError(c, err)
	}
	board, err := session.Board()
	if err != nil {
		log.Printf("ERROR decoding board for match %s: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "corrupt game state"})
	}

	return c.JSON(fiber.Map{
		"match_id":            match.ID,
		"match_status":        match.Status,
		"winner_id":           match.WinnerID,
		"player1_score":       match.Player1Score,
		"player2_score":       match.Player2Score,
		"board":               board,
		"current_player":      session.CurrentPlayer,
		"game_status":         session.GameStatus,
		"white_player_id":     session.WhitePlayerID,
		"black_player_id":     session.BlackPlayerID,
		"white_remaining_sec": session.WhiteRemainingSec,
		"black_remaining_sec": session.BlackRemainingSec,
		"last_move_at":        session.LastMoveAt,
		"moves":               session.Moves(),
		"draw_offer_by":       session.DrawOfferBy,
	})
}

// GetTournamentMatches lists a tournament's matches in bracket order.
func (s *MatchService) GetTournamentMatches(c *fiber.Ctx) error {
	var matches []models.Match
	err := s.DB.Where("tournament_id = ?", c.Params("id")).
		Order("round ASC, match_number ASC").
		Find(&matches).Error
	if err != nil {
		log.Printf("ERROR fetching matches for tournament %s: %v", c.Params("id"), err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches"})
	}
	return c.JSON(matches)
}

func (s *MatchService) loadMatch(id string) (*models.Match, error) {
	var match models.Match
	if err := s.DB.First(&match, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: match %s", models.ErrNotFound, id)
		}
		return nil, err
	}
	return &match, nil
}

func (s *MatchService) loadSession(matchID string) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.DB.First(&session, "match_id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: game session for match %s", models.ErrNotFound, matchID)
		}
		return nil, err
	}
	return &session, nil
}

func (s *MatchService) loadTournament(id string) (*models.Tournament, error) {
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tournament %s", models.ErrNotFound, id)
		}
		return nil, err
	}
	return &tournament, nil
}

// participantName resolves the denormalized display name, empty when
// the user never registered (owner-created exhibition slots).
func (s *MatchService) participantName(tournamentID, externalUserID string) string {
	var p models.TournamentParticipant
	err := s.DB.First(&p, "tournament_id = ? AND external_user_id = ?", tournamentID, externalUserID).Error
	if err != nil {
		return ""
	}
	return p.UserName
}

func (s *MatchService) saveMatchAndSession(match *models.Match, session *models.GameSession) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		return tx.Save(match).Error
	})
}
