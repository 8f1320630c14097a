package services

import (
	"errors"
	"fmt"
	"log"

	"chess-tournament-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TournamentService is the read surface over tournament records. The
// match lifecycle consumes owner, game type and status; registration
// and publishing belong to the tournament management collaborator.
type TournamentService struct {
	DB *gorm.DB
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db}
}

func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Order("start_time ASC").Find(&tournaments).Error; err != nil {
		log.Printf("ERROR fetching tournaments: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(tournaments)
}

func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var tournament models.Tournament
	err := s.DB.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Preload("Matches", func(db *gorm.DB) *gorm.DB {
			return db.Order("round ASC, match_number ASC")
		}).
		First(&tournament, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, fmt.Errorf("%w: tournament %s", models.ErrNotFound, id))
		}
		log.Printf("ERROR fetching tournament %s: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(tournament)
}

// GetTournamentParticipants lists registrations, optionally filtered
// by ?status= (e.g. active) in registration order.
func (s *TournamentService) GetTournamentParticipants(c *fiber.Ctx) error {
	query := s.DB.Where("tournament_id = ?", c.Params("id"))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var participants []models.TournamentParticipant
	if err := query.Order("joined_at ASC").Find(&participants).Error; err != nil {
		log.Printf("ERROR fetching participants for tournament %s: %v", c.Params("id"), err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch participants"})
	}
	return c.JSON(fiber.Map{
		"tournament_id": c.Params("id"),
		"participants":  participants,
		"count":         len(participants),
	})
}
