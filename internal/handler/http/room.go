package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

// RoomHandler exposes the durable room lifecycle over REST. The realtime
// path never goes through here; these endpoints exist so rooms can be
// created, browsed and ended.
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler creates a RoomHandler.
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

type createRoomRequest struct {
	Name            string   `json:"name" binding:"required,min=3,max=100"`
	Description     string   `json:"description" binding:"max=500"`
	Topic           string   `json:"topic" binding:"required,min=3,max=200"`
	MaxParticipants int      `json:"maxParticipants" binding:"omitempty,min=2,max=50"`
	IsPublic        *bool    `json:"isPublic"`
	Technologies    []string `json:"technologies"`
}

// CreateRoom handles POST /api/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), currentUserID(c), service.CreateRoomInput{
		Name:            req.Name,
		Description:     req.Description,
		Topic:           req.Topic,
		MaxParticipants: req.MaxParticipants,
		IsPublic:        req.IsPublic,
		Technologies:    req.Technologies,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Room created successfully",
		"room":    room,
	})
}

// ListRooms handles GET /api/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListPublicRooms(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom handles GET /api/rooms/:id. The path segment is a numeric room
// id or a room code.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	ref := c.Param("id")

	var err error
	var room interface{}
	var members interface{}
	if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
		room, members, err = h.roomService.GetRoom(c.Request.Context(), uint(id))
	} else {
		room, members, err = h.roomService.GetRoomByCode(c.Request.Context(), ref)
	}
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"room": room, "members": members})
}

type updateRoomRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=3,max=100"`
	Description     *string  `json:"description" binding:"omitempty,max=500"`
	Topic           *string  `json:"topic" binding:"omitempty,min=3,max=200"`
	MaxParticipants *int     `json:"maxParticipants" binding:"omitempty,min=2,max=50"`
	IsPublic        *bool    `json:"isPublic"`
	Technologies    []string `json:"technologies"`
}

// UpdateRoom handles PUT /api/rooms/:id. Owner only.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, currentUserID(c), service.UpdateRoomInput{
		Name:            req.Name,
		Description:     req.Description,
		Topic:           req.Topic,
		MaxParticipants: req.MaxParticipants,
		IsPublic:        req.IsPublic,
		Technologies:    req.Technologies,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// EndRoom handles POST /api/rooms/:id/end. Owner only: deactivates every
// membership and schedules the ephemeral state cleanup.
func (h *RoomHandler) EndRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.roomService.EndRoom(c.Request.Context(), roomID, currentUserID(c)); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Room ended successfully"})
}

// currentUserID reads the id the auth middleware stored on the context.
func currentUserID(c *gin.Context) uint {
	id, _ := c.Get("user_id")
	userID, _ := id.(uint)
	return userID
}

func roomIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid room id")
		return 0, false
	}
	return uint(id), true
}
