package handler

import (
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/service"
	"parkhya_chat_server/internal/service/message"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息接口
type MessageHandler struct {
	messageSvc service.MessageService
}

func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// Send POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	in, err := message.ParseInput(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	data, err := h.messageSvc.Send(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, "Message sent successfully", data)
}

// List GET /api/messages?receiverId=&page=&limit=&content=&type=
func (h *MessageHandler) List(c *gin.Context) {
	var q request.ListMessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	data, page, err := h.messageSvc.List(c.Request.Context(), currentUserID(c), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithPagination(c, "Messages retrieved successfully", data, page)
}

// Update PUT /api/messages/:messageId
func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := messageIDParam(c)
	if !ok {
		return
	}
	var req request.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.Update(c.Request.Context(), currentUserID(c), id, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Message updated successfully", data)
}

// Delete DELETE /api/messages/:messageId
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := messageIDParam(c)
	if !ok {
		return
	}
	if err := h.messageSvc.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Message deleted successfully", nil)
}

// MarkSeen PUT /api/messages/seen/:messageId
func (h *MessageHandler) MarkSeen(c *gin.Context) {
	id, ok := messageIDParam(c)
	if !ok {
		return
	}
	data, err := h.messageSvc.MarkSeen(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Message marked as seen", data)
}

// SeenUsers GET /api/messages/seen/:messageId
func (h *MessageHandler) SeenUsers(c *gin.Context) {
	id, ok := messageIDParam(c)
	if !ok {
		return
	}
	data, err := h.messageSvc.SeenUsers(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Seen users retrieved successfully", data)
}

// AddReaction POST /api/messages/:messageId/reactions
func (h *MessageHandler) AddReaction(c *gin.Context) {
	id, ok := messageIDParam(c)
	if !ok {
		return
	}
	var req request.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.AddReaction(c.Request.Context(), currentUserID(c), id, req.Emoji)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Reaction added successfully", data)
}

// Reactions GET /api/messages/:messageId/reactions
func (h *MessageHandler) Reactions(c *gin.Context) {
	id, ok := messageIDParam(c)
	if !ok {
		return
	}
	data, err := h.messageSvc.Reactions(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Reactions retrieved successfully", data)
}
