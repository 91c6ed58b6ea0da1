package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/services"
	"github.com/paradoks/clubhub/utils"
	"github.com/paradoks/clubhub/validators"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

func (pc *PostController) Create(c *gin.Context) {
	req, ok := validators.ValidatePostRequest(c)
	if !ok {
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), principalID(c), req.Title, req.Content)
	if err != nil {
		utils.SendError(c, "Failed to create post", err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Post created successfully", toPostResponse(*post), nil)
}

func (pc *PostController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := pc.posts.Get(c.Request.Context(), id)
	if err != nil {
		utils.SendError(c, "Failed to retrieve post", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Post retrieved successfully", toPostResponse(*post), nil)
}

func (pc *PostController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, ok := validators.ValidatePostRequest(c)
	if !ok {
		return
	}

	post, err := pc.posts.Update(c.Request.Context(), id, principalID(c), req.Title, req.Content)
	if err != nil {
		utils.SendError(c, "Failed to update post", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Post updated successfully", toPostResponse(*post), nil)
}

func (pc *PostController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.posts.Delete(c.Request.Context(), id, principalID(c)); err != nil {
		utils.SendError(c, "Failed to delete post", err)
		return
	}

	c.Status(http.StatusNoContent)
}
