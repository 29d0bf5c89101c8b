package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/chatroom-service/internal/domain"
	"github.com/weiawesome/wes-io-live/chatroom-service/internal/service"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/log"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/middleware"
	"github.com/weiawesome/wes-io-live/chatroom-service/pkg/response"
)

// Handler handles HTTP requests for chatroom service.
type Handler struct {
	roomService    service.RoomService
	messageService service.MessageService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	roomService service.RoomService,
	messageService service.MessageService,
	authMiddleware *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		roomService:    roomService,
		messageService: messageService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			// Public routes
			rooms.GET("/:id", h.GetRoom)

			// Protected routes
			rooms.GET("", h.authMiddleware.RequireAuth(), h.ListRooms)
			rooms.POST("", h.authMiddleware.RequireAuth(), h.CreateRoom)
			rooms.PUT("/:id", h.authMiddleware.RequireAuth(), h.UpdateRoom)
			rooms.DELETE("/:id", h.authMiddleware.RequireAuth(), h.DeleteRoom)
			rooms.POST("/:id/members", h.authMiddleware.RequireAuth(), h.AddMember)
			rooms.GET("/:id/messages", h.authMiddleware.RequireAuth(), h.ListMessages)
			rooms.DELETE("/:id/messages/:index", h.authMiddleware.RequireAuth(), h.DeleteMessageAt)
		}

		messages := api.Group("/messages", h.authMiddleware.RequireAuth())
		{
			messages.POST("", h.SendMessage)
			messages.DELETE("/:id", h.DeleteMessage)
		}
	}
}

// ListRooms lists the rooms the caller belongs to.
func (h *Handler) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	rooms, err := h.roomService.ListRooms(ctx, userID)
	if err != nil {
		h.fail(c, err, "failed to list rooms")
		return
	}

	response.Success(c, rooms)
}

// GetRoom retrieves a room by ID.
func (h *Handler) GetRoom(c *gin.Context) {
	ctx := c.Request.Context()

	room, err := h.roomService.GetRoom(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to get room")
		return
	}

	response.Success(c, room)
}

// CreateRoom creates a new room.
func (h *Handler) CreateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind create room request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.roomService.CreateRoom(ctx, middleware.GetUserID(c), &req)
	if err != nil {
		h.fail(c, err, "failed to create room")
		return
	}

	response.Created(c, room)
}

// UpdateRoom overwrites a room's details.
func (h *Handler) UpdateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind update room request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.roomService.UpdateRoom(ctx, middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		h.fail(c, err, "failed to update room")
		return
	}

	response.Success(c, room)
}

// AddMember appends a member to a room.
func (h *Handler) AddMember(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind add member request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.roomService.AddMember(ctx, middleware.GetUserID(c), c.Param("id"), req.MemberID)
	if err != nil {
		h.fail(c, err, "failed to add member")
		return
	}

	response.Success(c, room)
}

// DeleteRoom deletes a room and its messages.
func (h *Handler) DeleteRoom(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.roomService.DeleteRoom(ctx, middleware.GetUserID(c), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete room")
		return
	}

	response.Confirm(c, domain.MsgRoomDeleted)
}

// SendMessage posts a message to a room.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind send message request")
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messageService.SendMessage(ctx, middleware.GetUserID(c), &req)
	if err != nil {
		h.fail(c, err, "failed to send message")
		return
	}

	response.Created(c, msg)
}

// ListMessages lists a room's messages.
func (h *Handler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	messages, err := h.messageService.ListMessages(ctx, middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to list messages")
		return
	}

	response.Success(c, messages)
}

// DeleteMessage deletes a message by ID.
func (h *Handler) DeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.messageService.DeleteMessage(ctx, middleware.GetUserID(c), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete message")
		return
	}

	response.Confirm(c, domain.MsgMessageDeleted)
}

// DeleteMessageAt deletes a message by its position in the room.
func (h *Handler) DeleteMessageAt(c *gin.Context) {
	ctx := c.Request.Context()

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "message index must be an integer")
		return
	}

	if err := h.messageService.DeleteMessageAt(ctx, middleware.GetUserID(c), c.Param("id"), index); err != nil {
		h.fail(c, err, "failed to delete message")
		return
	}

	response.Confirm(c, domain.MsgMessageDeleted)
}

// fail writes the response for a service error. Expected failures carry
// their own message; anything else is logged and hidden behind internal.
func (h *Handler) fail(c *gin.Context, err error, internal string) {
	switch {
	case service.IsNotFound(err):
		response.NotFound(c, err.Error())
	case service.IsPermissionDenied(err):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrMessageIndexOutOfRange):
		response.OutOfRange(c, err.Error())
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).
			Str(log.FieldRoomID, c.Param("id")).
			Str(log.FieldUserID, middleware.GetUserID(c)).
			Msg(internal)
		response.InternalError(c, internal)
	}
}
