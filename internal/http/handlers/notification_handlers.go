package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexus/jobboard/domain"
	"github.com/nexus/jobboard/internal/http/middleware"
	"github.com/nexus/jobboard/internal/infrastructure/cache"
)

// NotificationHandlers handles in-app notification requests
type NotificationHandlers struct {
	notifs domain.NotificationService
	cache  ListCache
}

// NewNotificationHandlers creates new notification handlers
func NewNotificationHandlers(notifs domain.NotificationService, lc ListCache) *NotificationHandlers {
	return &NotificationHandlers{notifs: notifs, cache: lc}
}

// List returns the current user's notifications, newest first
func (h *NotificationHandlers) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		writeError(c, domain.ErrUnauthenticated)
		return
	}

	key := cache.Key(cache.PrefixNotificationsList, strconv.FormatUint(uint64(user.ID), 10), c.Request.URL.RequestURI())
	out, err := cache.Fetch(c.Request.Context(), h.cache.RT, key, h.cache.ListTTL,
		func(ctx context.Context) ([]NotificationResponse, error) {
			ns, err := h.notifs.ListForRecipient(ctx, user)
			if err != nil {
				return nil, err
			}
			return newNotificationResponses(ns), nil
		})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// MarkRead flags one of the current user's notifications as read
func (h *NotificationHandlers) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.notifs.MarkRead(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newNotificationResponse(n)})
}
