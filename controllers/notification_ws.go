package controller

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"

	"taskhive/config"
	"taskhive/models"
	"taskhive/utils"
)

// HandleNotificationsWS pushes unread-message and pending-invitation
// counts to the client over a websocket. The REST polling endpoints
// remain the contract; this is a cheaper channel for clients that keep
// a connection open.
func HandleNotificationsWS(c *websocket.Conn) {
	defer c.Close()

	token := c.Query("token")
	claims, err := utils.ParseJWTToken(token)
	if err != nil {
		_ = c.WriteJSON(map[string]string{"error": "invalid token"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil || claims.TokenVersion != user.TokenVersion {
		_ = c.WriteJSON(map[string]string{"error": "invalid token"})
		return
	}

	type snapshot struct {
		UnreadMessages     int64 `json:"unread_messages"`
		PendingInvitations int64 `json:"pending_invitations"`
	}

	send := func() error {
		var snap snapshot
		config.DB.Model(&models.Message{}).
			Where("receiver_id = ? AND is_read = ?", user.ID, false).
			Count(&snap.UnreadMessages)
		config.DB.Model(&models.TeamInvitation{}).
			Where("invitee_id = ? AND status = ?", user.ID, models.InvitationPending).
			Count(&snap.PendingInvitations)
		return c.WriteJSON(snap)
	}

	if err := send(); err != nil {
		return
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	// Reader goroutine: we only care about the close frame.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := send(); err != nil {
				log.Printf("notifications ws write failed: %v", err)
				return
			}
		}
	}
}
