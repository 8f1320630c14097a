package services

import (
	"fmt"
	"log"
	"strings"

	"chess-tournament-system/models"
	"chess-tournament-system/utils"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ArchiveService exports finished games to R2 as plain-text records.
// Export is best-effort: a failed upload is logged, never surfaced to
// the request that completed the match.
type ArchiveService struct {
	DB *gorm.DB
}

func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{DB: db}
}

// ArchiveMatch uploads the game record of a completed match. Intended
// to be called in a goroutine after the completion commit.
func (a *ArchiveService) ArchiveMatch(matchID string) {
	var match models.Match
	if err := a.DB.First(&match, "id = ?", matchID).Error; err != nil {
		log.Printf("[ARCHIVE] ⚠️ match %s not found: %v", matchID, err)
		return
	}
	if match.Status != models.MatchCompleted {
		return
	}

	var tournament models.Tournament
	if err := a.DB.First(&tournament, "id = ?", match.TournamentID).Error; err != nil {
		log.Printf("[ARCHIVE] ⚠️ tournament %s not found for match %s: %v", match.TournamentID, matchID, err)
		return
	}

	// Session is optional: matches of game types without an embedded
	// engine still get an outcome record.
	var session models.GameSession
	hasSession := a.DB.First(&session, "match_id = ?", matchID).Error == nil

	key := fmt.Sprintf("archives/%s/%s.txt", slug.Make(tournament.Name), match.ID)
	content := buildArchive(&tournament, &match, &session, hasSession)

	url, err := utils.UploadBytesToR2(key, []byte(content), "text/plain; charset=utf-8")
	if err != nil {
		log.Printf("[ARCHIVE] ❌ upload failed for match %s: %v", matchID, err)
		return
	}
	log.Printf("[ARCHIVE] ✅ match %s archived at %s", matchID, url)
}

func buildArchive(t *models.Tournament, m *models.Match, s *models.GameSession, hasSession bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tournament: %s (%s)\n", t.Name, t.ID)
	fmt.Fprintf(&b, "Round %d, game %d\n", m.Round, m.MatchNumber)
	fmt.Fprintf(&b, "Player 1: %s (%s)\n", m.Player1Name, m.Player1ID)
	fmt.Fprintf(&b, "Player 2: %s (%s)\n", m.Player2Name, m.Player2ID)
	if m.WinnerID != "" {
		fmt.Fprintf(&b, "Winner: %s\n", m.WinnerID)
	} else {
		b.WriteString("Winner: none\n")
	}
	if m.EndTime != nil {
		fmt.Fprintf(&b, "Finished: %s\n", m.EndTime.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	if hasSession {
		fmt.Fprintf(&b, "Game status: %s\n", s.GameStatus)
		fmt.Fprintf(&b, "Clocks: white %ds, black %ds\n", s.WhiteRemainingSec, s.BlackRemainingSec)
		fmt.Fprintf(&b, "Moves: %s\n", strings.Join(s.Moves(), " "))
	}
	return b.String()
}
