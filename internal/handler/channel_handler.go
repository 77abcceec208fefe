package handler

import (
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ChannelHandler 频道接口
type ChannelHandler struct {
	channelSvc service.ChannelService
}

func NewChannelHandler(channelSvc service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelSvc: channelSvc}
}

// Create POST /api/channels
func (h *ChannelHandler) Create(c *gin.Context) {
	var req request.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.channelSvc.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, "Channel created successfully", data)
}

// List 当前用户加入的频道
// GET /api/channels
func (h *ChannelHandler) List(c *gin.Context) {
	data, err := h.channelSvc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Channels retrieved successfully", data)
}

// Get GET /api/channels/:channelId
func (h *ChannelHandler) Get(c *gin.Context) {
	data, err := h.channelSvc.Get(c.Request.Context(), currentUserID(c), c.Param("channelId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Channel retrieved successfully", data)
}

// Update PUT /api/channels/:channelId
func (h *ChannelHandler) Update(c *gin.Context) {
	var req request.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.channelSvc.Update(c.Request.Context(), currentUserID(c), c.Param("channelId"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Channel updated successfully", data)
}

// Delete DELETE /api/channels/:channelId
func (h *ChannelHandler) Delete(c *gin.Context) {
	if err := h.channelSvc.Delete(c.Request.Context(), currentUserID(c), c.Param("channelId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Channel deleted successfully", nil)
}

// AddMember POST /api/channels/:channelId/members
func (h *ChannelHandler) AddMember(c *gin.Context) {
	var req request.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.channelSvc.AddMember(c.Request.Context(), currentUserID(c), c.Param("channelId"), req.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Member added successfully", data)
}

// RemoveMember DELETE /api/channels/:channelId/members/:userId
func (h *ChannelHandler) RemoveMember(c *gin.Context) {
	err := h.channelSvc.RemoveMember(c.Request.Context(), currentUserID(c), c.Param("channelId"), c.Param("userId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Member removed successfully", nil)
}

// Messages GET /api/channels/:channelId/messages?page=&limit=
func (h *ChannelHandler) Messages(c *gin.Context) {
	var q request.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	data, page, err := h.channelSvc.Messages(c.Request.Context(), currentUserID(c), c.Param("channelId"), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccessWithPagination(c, "Channel messages retrieved successfully", data, page)
}
