package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/interest"
	"github.com/gin-gonic/gin"
)

type InterestHandler struct {
	interestUseCase *interest.InterestUseCase
	log             *logger.Logger
}

func NewInterestHandler(interestUseCase *interest.InterestUseCase, log *logger.Logger) *InterestHandler {
	return &InterestHandler{
		interestUseCase: interestUseCase,
		log:             log.With("handler", "interest"),
	}
}

func interestStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrMissingPersonality):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UpdateInterests handles POST /interests/update
// @Summary Update interests
// @Description Upsert interests, activities and bio of the current user
// @Tags interests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body interest.UpdateInterestsRequest true "Profile data"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interests/update [post]
func (h *InterestHandler) UpdateInterests(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req interest.UpdateInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	profile, err := h.interestUseCase.UpdateInterests(c.Request.Context(), userID, &req)
	if err != nil {
		fail(c, h.log, interestStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Interests updated successfully",
		"profile": profile,
	})
}

// GetMine handles GET /interests/
// @Summary Get my interests
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Success 200 {object} interest.MyProfileResponse
// @Failure 500 {object} ErrorResponse
// @Router /interests/ [get]
func (h *InterestHandler) GetMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	resp, err := h.interestUseCase.GetMine(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, interestStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FindMatches handles GET /interests/matches
// @Summary Find similar users
// @Description Rank other users by interest and activity similarity
// @Tags interests
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Max results (default 20)"
// @Param minSimilarity query number false "Minimum similarity in [0,1]"
// @Success 200 {object} interest.MatchResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interests/matches [get]
func (h *InterestHandler) FindMatches(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	q := h.interestUseCase.ParseMatchQuery(c.Query("limit"), c.Query("minSimilarity"))
	resp, err := h.interestUseCase.FindMatches(c.Request.Context(), userID, q)
	if err != nil {
		fail(c, h.log, interestStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePersonality handles POST /interests/updatePersonality
// @Summary Save personality quiz results
// @Tags interests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body interest.UpdatePersonalityRequest true "Trait scores and summary"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interests/updatePersonality [post]
func (h *InterestHandler) UpdatePersonality(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req interest.UpdatePersonalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	profile, err := h.interestUseCase.UpdatePersonality(c.Request.Context(), userID, &req)
	if err != nil {
		fail(c, h.log, interestStatus(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Personality updated successfully",
		"profile": profile,
	})
}

// GetPublic handles GET /interests/:id
// @Summary Public profile
// @Tags interests
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} interest.PublicProfile
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /interests/{id} [get]
func (h *InterestHandler) GetPublic(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.interestUseCase.GetPublic(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.log, interestStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
