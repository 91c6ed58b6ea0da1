package validators

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/utils"
)

// ClubUpdateRequest fields left out of the body are not changed.
type ClubUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=64,clubname"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags" validate:"omitempty,max=64,dive,max=20,tag"`
}

type ClubDescriptionRequest struct {
	Description string `json:"description" validate:"max=10000"`
}

type PostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

func ValidateClubUpdateRequest(c *gin.Context) (*ClubUpdateRequest, bool) {
	return bindJSON[ClubUpdateRequest](c)
}

func ValidateClubDescriptionRequest(c *gin.Context) (*ClubDescriptionRequest, bool) {
	return bindJSON[ClubDescriptionRequest](c)
}

func ValidatePostRequest(c *gin.Context) (*PostRequest, bool) {
	return bindJSON[PostRequest](c)
}

// ValidatePageParams reads page, size and sortBy from the query string.
func ValidatePageParams(c *gin.Context) (utils.PageParams, bool) {
	params := utils.DefaultPageParams()
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.SendResponse(c, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return params, false
	}
	if _, ok := check(c, &params); !ok {
		return params, false
	}
	return params, true
}
