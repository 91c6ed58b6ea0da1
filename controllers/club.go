package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/services"
	"github.com/paradoks/clubhub/storage"
	"github.com/paradoks/clubhub/utils"
	"github.com/paradoks/clubhub/validators"
)

type ClubController struct {
	clubs *services.ClubService
}

func NewClubController(clubs *services.ClubService) *ClubController {
	return &ClubController{clubs: clubs}
}

func (cc *ClubController) List(c *gin.Context) {
	params, ok := validators.ValidatePageParams(c)
	if !ok {
		return
	}

	page, err := cc.clubs.List(c.Request.Context(), params)
	if err != nil {
		utils.SendError(c, "Failed to list clubs", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Clubs retrieved successfully", utils.MapPaged(page, toClubResponse), nil)
}

func (cc *ClubController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	club, err := cc.clubs.Get(c.Request.Context(), id)
	if err != nil {
		utils.SendError(c, "Failed to retrieve club", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Club retrieved successfully", toClubResponse(*club), nil)
}

// Update changes the calling club's name, description or tags
func (cc *ClubController) Update(c *gin.Context) {
	req, ok := validators.ValidateClubUpdateRequest(c)
	if !ok {
		return
	}

	club, err := cc.clubs.Update(c.Request.Context(), principalID(c), services.ClubUpdate{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		utils.SendError(c, "Failed to update club", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Club updated successfully", toClubResponse(*club), nil)
}

func (cc *ClubController) UpdateDescription(c *gin.Context) {
	req, ok := validators.ValidateClubDescriptionRequest(c)
	if !ok {
		return
	}

	club, err := cc.clubs.UpdateDescription(c.Request.Context(), principalID(c), req.Description)
	if err != nil {
		utils.SendError(c, "Failed to update club", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Club updated successfully", toClubResponse(*club), nil)
}

func (cc *ClubController) UpdateProfilePicture(c *gin.Context) {
	cc.upload(c, "profilePicture", cc.clubs.UpdateProfilePicture)
}

func (cc *ClubController) UpdateBanner(c *gin.Context) {
	cc.upload(c, "banner", cc.clubs.UpdateBanner)
}

func (cc *ClubController) upload(c *gin.Context, field string, update func(ctx context.Context, id uint, up storage.Upload) (*models.Club, error)) {
	fh, err := c.FormFile(field)
	if err != nil {
		utils.SendResponse(c, http.StatusBadRequest, "Upload failed", nil, "Please select a file to upload")
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.SendError(c, "Upload failed", err)
		return
	}
	defer f.Close()

	club, err := update(c.Request.Context(), principalID(c), storage.Upload{
		File:        f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		utils.SendError(c, "Upload failed", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Club updated successfully", toClubResponse(*club), nil)
}

func (cc *ClubController) ListPosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	params, ok := validators.ValidatePageParams(c)
	if !ok {
		return
	}

	page, err := cc.clubs.ListPosts(c.Request.Context(), id, params)
	if err != nil {
		utils.SendError(c, "Failed to list posts", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Posts retrieved successfully", utils.MapPaged(page, toPostResponse), nil)
}

// ToggleMembership lets the calling user join the club, or leave it if it is
// already a member
func (cc *ClubController) ToggleMembership(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	joined, err := cc.clubs.ToggleMembership(c.Request.Context(), id, principalID(c))
	if err != nil {
		utils.SendError(c, "Failed to update membership", err)
		return
	}

	message := "Successfully left the club"
	if joined {
		message = "Successfully joined the club"
	}
	utils.SendResponse(c, http.StatusOK, message, map[string]bool{"joined": joined}, nil)
}

func (cc *ClubController) Members(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	params, ok := validators.ValidatePageParams(c)
	if !ok {
		return
	}

	page, err := cc.clubs.Members(c.Request.Context(), id, params)
	if err != nil {
		utils.SendError(c, "Failed to list members", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Members retrieved successfully", utils.MapPaged(page, toUserResponse), nil)
}
