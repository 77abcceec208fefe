package handler

import (
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理接口
type UserHandler struct {
	userSvc     service.UserService
	presenceSvc service.PresenceService
}

func NewUserHandler(userSvc service.UserService, presenceSvc service.PresenceService) *UserHandler {
	return &UserHandler{userSvc: userSvc, presenceSvc: presenceSvc}
}

// Create 管理员创建用户
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, "User created successfully", data)
}

// List GET /api/users?searchTerm=&page=&limit=
func (h *UserHandler) List(c *gin.Context) {
	var q request.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.List(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Users retrieved successfully", data)
}

// Online GET /api/users/online
func (h *UserHandler) Online(c *gin.Context) {
	ids, err := h.presenceSvc.OnlineUsers(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "Online users retrieved successfully", ids)
}

// Get GET /api/users/:userId
func (h *UserHandler) Get(c *gin.Context) {
	data, err := h.userSvc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "User retrieved successfully", data)
}

// Update 本人或管理员
// PUT /api/users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	var req request.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Update(c.Request.Context(), currentUserID(c), c.Param("userId"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "User updated successfully", data)
}

// Delete 管理员
// DELETE /api/users/:userId
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userSvc.Delete(c.Request.Context(), currentUserID(c), c.Param("userId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, "User deleted successfully", nil)
}
