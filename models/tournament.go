package models

import (
	"time"
)

// Tournament statuses.
const (
	TournamentDraft     = "draft"
	TournamentPublished = "published"
	TournamentActive    = "active"
	TournamentCompleted = "completed"
)

// Game types with an embedded per-match game engine.
const GameTypeChess = "chess"

// Tournament is the competition record. The match lifecycle only reads
// it (owner, game type, status); registration and publishing are owned
// by the tournament management surface.
type Tournament struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	OwnerID         string    `json:"owner_id" gorm:"not null;index"`
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	GameType        string    `json:"game_type" gorm:"not null;default:'chess'"`
	MaxParticipants int       `json:"max_participants" gorm:"default:0"`
	Status          string    `json:"status" gorm:"default:'draft'"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Participants []TournamentParticipant `json:"participants,omitempty" gorm:"foreignKey:TournamentID"`
	Matches      []Match                 `json:"matches,omitempty" gorm:"foreignKey:TournamentID"`
}

// RequiresGameSession reports whether matches of this tournament embed
// a live game engine.
func (t *Tournament) RequiresGameSession() bool {
	return t.GameType == GameTypeChess
}

// Participant roles and statuses.
const (
	RoleOwner       = "owner"
	RoleParticipant = "participant"
	RoleSpectator   = "spectator"

	ParticipantRegistered = "registered"
	ParticipantPaid       = "paid"
	ParticipantActive     = "active"
	ParticipantKicked     = "kicked"
)

// TournamentParticipant tracks a user's membership in a tournament.
// UserName and UserAvatarURL are denormalized from the profile service
// and refreshed by the sync worker.
type TournamentParticipant struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	TournamentID   string     `json:"tournament_id" gorm:"not null;index"`
	ExternalUserID string     `json:"external_user_id" gorm:"not null;index"`
	UserName       string     `json:"user_name"`
	UserAvatarURL  *string    `json:"user_avatar_url,omitempty"`
	Role           string     `json:"role" gorm:"default:'participant'"`
	Status         string     `json:"status" gorm:"default:'registered'"`
	JoinedAt       time.Time  `json:"joined_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	KickedAt       *time.Time `json:"kicked_at,omitempty"`
	KickedReason   string     `json:"kicked_reason,omitempty"`
}
