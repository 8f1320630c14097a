// workers/participant_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"chess-tournament-system/models"
	"gorm.io/gorm"
)

// ProfileChange matches the JSON response of the profile sync service.
type ProfileChange struct {
	ExternalID        string    `json:"external_id"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetProfileChangesResponse is the top-level structure of the sync service response.
type GetProfileChangesResponse struct {
	Users []ProfileChange `json:"users"`
}

// ParticipantSyncWorker refreshes the denormalized display name and
// avatar on tournament participants from the profile service.
type ParticipantSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/profiles"
	serviceToken string
	httpClient   *http.Client
}

func NewParticipantSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *ParticipantSyncWorker {
	return &ParticipantSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ParticipantSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Participant Sync Worker (profile service → tournament_participants)…")
	go w.run(ctx)
}

func (w *ParticipantSyncWorker) run(ctx context.Context) {
	// Initial sync backfills names from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial participant sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Participant sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Participant Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt across participants.
func (w *ParticipantSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM tournament_participants").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches profile changes and refreshes matching participants.
func (w *ParticipantSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base sync service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("[SYNC] ❌ Request to %s failed: %v", finalURL, err)
		return fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[SYNC] ❌ Sync service returned %d for %s: %s", resp.StatusCode, finalURL, string(body))
		return fmt.Errorf("sync service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetProfileChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode sync service response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d profile change(s)…", len(response.Users))

	var updateCount, errorCount int
	for _, change := range response.Users {
		result := w.db.Model(&models.TournamentParticipant{}).
			Where("external_user_id = ?", change.ExternalID).
			Updates(map[string]interface{}{
				"user_name":       change.Username,
				"user_avatar_url": change.ProfilePictureURL,
			})
		if result.Error != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to refresh participant (external_id=%q, username=%q): %v",
				change.ExternalID, change.Username, result.Error)
		} else if result.RowsAffected > 0 {
			updateCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d profile change(s) (%d participants refreshed, %d errors)",
		len(response.Users), updateCount, errorCount)
	return nil
}
