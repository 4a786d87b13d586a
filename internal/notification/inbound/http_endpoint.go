package inbound

import (
	"github.com/tenangapp/tenang/internal/notification/usecase"
	"github.com/tenangapp/tenang/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// DeviceRegister binds a push token to the caller's account.
// @Summary Register device
// @Description Binds a push notification token to the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Param request body RegisterDeviceRequest true "Device registration payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/device [post]
func (h *HTTPEndpoint) DeviceRegister(r *router.Request) (any, error) {
	var req RegisterDeviceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.DeviceRegister(r.Context(), usecase.DeviceRegisterInput{
		DeviceToken: req.DeviceToken,
		Platform:    req.Platform,
	})
}

// DeviceRemove unbinds a push token.
// @Summary Remove device
// @Description Unbinds a push notification token so the device stops receiving pushes.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Param request body RemoveDeviceRequest true "Device removal payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/device [delete]
func (h *HTTPEndpoint) DeviceRemove(r *router.Request) (any, error) {
	var req RemoveDeviceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.DeviceRemove(r.Context(), usecase.DeviceRemoveInput{DeviceToken: req.DeviceToken})
}

// ListInbox pages through the caller's in-app inbox.
// @Summary List inbox
// @Description Lists in-app inbox notifications for the authenticated user.
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (all|read|unread)"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=NotificationsResponse} "Notification list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox [get]
func (h *HTTPEndpoint) ListInbox(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListInbox(r.Context(), usecase.ListInboxInput{
		Status: r.GetQuery("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, NotificationResponse{
			ID:         item.ID,
			CategoryID: item.CategoryID,
			TriggerKey: item.TriggerKey.String(),
			Data:       item.Data,
			Metadata:   item.Metadata,
			ReadAt:     item.ReadAt,
			CreatedAt:  item.CreatedAt,
		})
	}

	return NotificationsResponse{Notifications: resp}, nil
}

// UnreadInboxCount reports how many inbox items are still unread.
// @Summary Count unread inbox
// @Description Counts the authenticated user's unread inbox notifications, for the app badge.
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=UnreadCountResponse} "Unread count"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/unread-count [get]
func (h *HTTPEndpoint) UnreadInboxCount(r *router.Request) (any, error) {
	count, err := h.uc.CountUnreadInbox(r.Context())
	if err != nil {
		return nil, err
	}

	return UnreadCountResponse{Count: count}, nil
}

// MarkInboxRead flips one inbox item to read.
// @Summary Mark inbox read
// @Description Marks a single inbox notification as read.
// @Tags Inbox
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/{id}/read [patch]
func (h *HTTPEndpoint) MarkInboxRead(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.MarkInboxRead(r.Context(), usecase.MarkInboxReadInput{ID: id})
}

// MarkAllInboxRead clears the unread state across the whole inbox.
// @Summary Mark all inbox read
// @Description Marks every inbox notification of the authenticated user as read.
// @Tags Inbox
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/read-all [put]
func (h *HTTPEndpoint) MarkAllInboxRead(r *router.Request) (any, error) {
	return nil, h.uc.MarkAllInboxRead(r.Context())
}

// DeleteInbox hides an inbox item from the listing.
// @Summary Delete inbox
// @Description Soft deletes one of the authenticated user's inbox notifications.
// @Tags Inbox
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/{id} [delete]
func (h *HTTPEndpoint) DeleteInbox(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.DeleteInbox(r.Context(), usecase.DeleteInboxInput{ID: id})
}
