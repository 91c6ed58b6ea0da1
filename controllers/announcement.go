package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/services"
	"github.com/paradoks/clubhub/utils"
	"github.com/paradoks/clubhub/validators"
)

type AnnouncementController struct {
	announcements *services.AnnouncementService
}

func NewAnnouncementController(announcements *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcements: announcements}
}

func (ac *AnnouncementController) List(c *gin.Context) {
	params, ok := validators.ValidatePageParams(c)
	if !ok {
		return
	}

	page, err := ac.announcements.List(c.Request.Context(), params)
	if err != nil {
		utils.SendError(c, "Failed to list announcements", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Announcements retrieved successfully", utils.MapPaged(page, toAnnouncementResponse), nil)
}
