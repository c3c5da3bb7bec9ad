package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/utils"
)

const defaultUploadDir = "./uploads"

func uploadDir() string {
	if cfg := config.GetConfig(); cfg != nil && cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return defaultUploadDir
}

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves listing images stored on local disk
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if !utils.IsSafeFilename(filename) {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType := utils.ImageContentType(filename)
	if contentType == "application/octet-stream" {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG and JPEG files are supported")
		return
	}

	filePath := filepath.Join(uploadDir(), filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		respondErrorCode(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(filePath)
}
