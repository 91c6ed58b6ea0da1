package controllers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/database"
	"github.com/paradoks/clubhub/storage"
	"github.com/paradoks/clubhub/utils"
	"gorm.io/gorm"
)

// SystemController serves uploaded files and the health check.
type SystemController struct {
	db     *gorm.DB
	images *storage.Images
}

func NewSystemController(db *gorm.DB, images *storage.Images) *SystemController {
	return &SystemController{db: db, images: images}
}

func (sc *SystemController) File(c *gin.Context) {
	path, ok := sc.images.Path(c.Param("filename"))
	if !ok {
		utils.SendResponse(c, http.StatusNotFound, "File not found", nil, nil)
		return
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		utils.SendResponse(c, http.StatusNotFound, "File not found", nil, nil)
		return
	}
	if err != nil {
		utils.SendError(c, "Failed to read file", err)
		return
	}

	c.File(path)
}

func (sc *SystemController) Health(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), sc.db); err != nil {
		utils.SendResponse(c, http.StatusServiceUnavailable, "Unhealthy", nil, "Database unreachable")
		return
	}
	utils.SendResponse(c, http.StatusOK, "OK", map[string]string{"database": "up"}, nil)
}
