package services

import (
	"errors"
	"fmt"
	"log"

	"chess-tournament-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BracketService pairs eligible participants into round-1 matches.
// Multi-round progression is not derived here; later rounds are the
// consumer's concern.
type BracketService struct {
	DB *gorm.DB
}

func NewBracketService(db *gorm.DB) *BracketService {
	return &BracketService{DB: db}
}

// BracketPair is one generated round-1 pairing.
type BracketPair struct {
	Player1     models.TournamentParticipant `json:"player1"`
	Player2     models.TournamentParticipant `json:"player2"`
	MatchNumber int                          `json:"match_number"`
}

// SequentialPairs pairs participants in registration order: index 0 vs
// 1, 2 vs 3, and so on. A trailing unpaired participant is dropped
// without a bye record.
func SequentialPairs(participants []models.TournamentParticipant) []BracketPair {
	var pairs []BracketPair
	for i := 0; i+1 < len(participants); i += 2 {
		pairs = append(pairs, BracketPair{
			Player1:     participants[i],
			Player2:     participants[i+1],
			MatchNumber: i/2 + 1,
		})
	}
	return pairs
}

// GenerateBracket creates the round-1 matches for a tournament from
// its active participants. Tournament owner only.
func (s *BracketService) GenerateBracket(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	userID := currentUserID(c)
	if userID == "" {
		return respondError(c, models.ErrAuthenticationRequired)
	}

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fmt.Errorf("%w: tournament %s", models.ErrNotFound, tournamentID))
		}
		log.Printf("DB Error fetching tournament %s: %v", tournamentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if tournament.OwnerID != userID {
		return respondError(c, fmt.Errorf("%w: only the tournament owner can generate the bracket", models.ErrAuthorizationDenied))
	}

	var existing int64
	s.DB.Model(&models.Match{}).Where("tournament_id = ? AND round = 1", tournamentID).Count(&existing)
	if existing > 0 {
		return respondError(c, fmt.Errorf("%w: round-1 bracket for tournament %s", models.ErrAlreadyExists, tournamentID))
	}

	participants, err := s.eligibleParticipants(tournamentID)
	if err != nil {
		log.Printf("DB Error fetching participants for tournament %s: %v", tournamentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participants"})
	}
	if len(participants) < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "not enough active participants for pairing"})
	}

	pairs := SequentialPairs(participants)
	if len(participants)%2 != 0 {
		odd := participants[len(participants)-1]
		log.Printf("⚠️  Tournament %s has an odd participant count; %s (%s) left unpaired",
			tournamentID, odd.UserName, odd.ExternalUserID)
	}

	matches := make([]models.Match, 0, len(pairs))
	for _, pair := range pairs {
		matches = append(matches, models.Match{
			ID:           uuid.NewString(),
			TournamentID: tournamentID,
			Round:        1,
			MatchNumber:  pair.MatchNumber,
			Player1ID:    pair.Player1.ExternalUserID,
			Player1Name:  pair.Player1.UserName,
			Player2ID:    pair.Player2.ExternalUserID,
			Player2Name:  pair.Player2.UserName,
			Status:       models.MatchScheduled,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range matches {
			if err := tx.Create(&matches[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("DB Error creating bracket for tournament %s: %v", tournamentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create bracket"})
	}

	return c.Status(201).JSON(fiber.Map{
		"tournament_id": tournamentID,
		"round":         1,
		"matches":       matches,
		"total_pairs":   len(matches),
	})
}

// eligibleParticipants returns active participants in registration
// order. Insertion order is the seeding; no other key is applied.
func (s *BracketService) eligibleParticipants(tournamentID string) ([]models.TournamentParticipant, error) {
	var participants []models.TournamentParticipant
	err := s.DB.Where("tournament_id = ? AND status = ?", tournamentID, models.ParticipantActive).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}
