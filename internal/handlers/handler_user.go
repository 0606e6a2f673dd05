package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
	"github.com/SscSPs/multicurrency_tracker/internal/dto"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to the caller's own profile.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PUT("/me", h.upsertMe)
	}
}

// getMe godoc
// @Summary Get the current user
// @Description Returns the caller's profile including the reporting currency
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// upsertMe godoc
// @Summary Create or update the current user
// @Description Sets the caller's name and reporting currency. Recorded transaction amounts are not rewritten.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user body dto.UpsertUserRequest true "Profile"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /users/me [put]
func (h *userHandler) upsertMe(c *gin.Context) {
	var req dto.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "upsert user request")
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.UpsertUser(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, err, "Failed to save user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
