package api

import (
	"net/http"

	"fitpoint/gym-app/internal/domain"
	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MembershipHandler struct {
	membershipService service.MembershipService
	catalogService    service.CatalogService
}

func NewMembershipHandler(membershipService service.MembershipService, catalogService service.CatalogService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		catalogService:    catalogService,
	}
}

type CreatePackageRequest struct {
	Name           string  `json:"name" binding:"required"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	DurationMonths int     `json:"durationMonths" binding:"required,gt=0"`
	Points         int     `json:"points" binding:"required,gt=0"`
	Description    string  `json:"description"`
}

type UpdatePackageRequest struct {
	Price          float64 `json:"price" binding:"required,gt=0"`
	DurationMonths int     `json:"durationMonths" binding:"required,gt=0"`
	Points         int     `json:"points" binding:"required,gt=0"`
	Description    string  `json:"description"`
}

// --- Package catalog ---

func (h *MembershipHandler) GetPackages(c *gin.Context) {
	pkgs, err := h.catalogService.GetPackages(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if pkgs == nil {
		pkgs = []domain.MembershipPackage{}
	}
	c.JSON(http.StatusOK, pkgs)
}

func (h *MembershipHandler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	pkg, err := h.catalogService.CreatePackage(c.Request.Context(), &domain.MembershipPackage{
		Name:           req.Name,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		Points:         req.Points,
		Description:    req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

func (h *MembershipHandler) UpdatePackage(c *gin.Context) {
	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Validation error: "+err.Error())
		return
	}

	pkg, err := h.catalogService.UpdatePackage(c.Request.Context(), c.Param("name"), req.Price, req.DurationMonths, req.Points, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

func (h *MembershipHandler) DeletePackage(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "MISSING_FIELDS", "Invalid package ID format")
		return
	}

	if err := h.catalogService.DeletePackage(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "package deleted"})
}

func (h *MembershipHandler) GetServiceTypes(c *gin.Context) {
	types, err := h.catalogService.GetServiceTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if types == nil {
		types = []domain.ServiceType{}
	}
	c.JSON(http.StatusOK, types)
}

// --- Membership ledger ---

// GetEligibility reports whether the caller may activate a new membership
// now. The mobile app gates the purchase flow on this.
func (h *MembershipHandler) GetEligibility(c *gin.Context) {
	uid, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify client from token")
		return
	}

	eligible, err := h.membershipService.IsEligibleForActivation(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"eligible": eligible})
}

func (h *MembershipHandler) GetPurchaseHistory(c *gin.Context) {
	uid, err := getUserUIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unable to identify client from token")
		return
	}

	history, err := h.membershipService.PurchaseHistory(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if history == nil {
		history = []domain.PurchaseHistory{}
	}

	c.JSON(http.StatusOK, history)
}
