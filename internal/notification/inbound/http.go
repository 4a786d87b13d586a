package inbound

import (
	"github.com/tenangapp/tenang/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/notification/device", end.DeviceRegister)
	r.DELETE("/api/v1/notification/device", end.DeviceRemove)

	r.GET("/api/v1/notification/inbox", end.ListInbox)
	r.GET("/api/v1/notification/inbox/unread-count", end.UnreadInboxCount)
	r.PATCH("/api/v1/notification/inbox/:id/read", end.MarkInboxRead)
	r.PUT("/api/v1/notification/inbox/read-all", end.MarkAllInboxRead)
	r.DELETE("/api/v1/notification/inbox/:id", end.DeleteInbox)
}
