package api

import (
	"net/http"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type UpdateClientProfileRequest struct {
	Name            string   `json:"name"`
	Gender          string   `json:"gender"`
	Age             int      `json:"age" binding:"omitempty,gte=0,lte=120"`
	HeightCM        float64  `json:"height" binding:"omitempty,gte=0"`
	WeightKG        float64  `json:"weight" binding:"omitempty,gte=0"`
	HealthCondition string   `json:"healthCondition"`
	Goals           []string `json:"goals"`
}

// resolveClientUID returns the uid the request may act on. Clients can
// only access their own profile; admins can access any.
func resolveClientUID(c *gin.Context) (string, bool) {
	targetUID := c.Param("uid")
	callerUID, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify user from token")
		return "", false
	}
	role, _ := getUserRoleFromContext(c)
	if role != domain.RoleAdmin && callerUID != targetUID {
		abortWithError(c, http.StatusForbidden, "NOT_AUTHORIZED", "Cannot access another client's profile")
		return "", false
	}
	return targetUID, true
}

func (h *ClientHandler) GetProfile(c *gin.Context) {
	uid, ok := resolveClientUID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	uid, ok := resolveClientUID(c)
	if !ok {
		return
	}

	var req UpdateClientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	client, err := h.clientService.UpdateProfile(c.Request.Context(), uid, service.ClientProfileUpdate{
		Name:            req.Name,
		Gender:          req.Gender,
		Age:             req.Age,
		HeightCM:        req.HeightCM,
		WeightKG:        req.WeightKG,
		HealthCondition: req.HealthCondition,
		Goals:           req.Goals,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}
