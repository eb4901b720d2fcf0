package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenbean/storefront-backend/internal/app/service"
	"github.com/greenbean/storefront-backend/internal/errors"
	"github.com/greenbean/storefront-backend/internal/middleware"
	"github.com/greenbean/storefront-backend/internal/storage"
)

type UploadController struct {
	storage        *storage.ImageStorage
	productService service.ProductService
}

func NewUploadController(imageStorage *storage.ImageStorage, productService service.ProductService) *UploadController {
	return &UploadController{
		storage:        imageStorage,
		productService: productService,
	}
}

type PresignImageRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size"`
}

// PresignProductImage issues a pre-signed upload URL for a product's image
// POST /api/v1/products/:sku/image
func (ctrl *UploadController) PresignProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sku := c.Param("sku")

	var req PresignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.GetProductBySKU(sku)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		errors.InternalError(c, "")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType); err != nil {
		errors.BadRequest(c, errors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
		return
	}
	if req.Size > 0 {
		if err := ctrl.storage.ValidateFileSize(req.Size); err != nil {
			errors.BadRequest(c, errors.UploadFileTooLarge, "Image is too large")
			return
		}
	}

	upload, err := ctrl.storage.PresignProductImage(sku, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to presign product image upload", err, map[string]interface{}{
			"sku":          sku,
			"content_type": req.ContentType,
		})
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "Failed to prepare upload")
		return
	}

	// The product row points at the final URL right away; the browser
	// PUTs the bytes directly to S3.
	product.ImageURL = upload.FileURL
	if err := ctrl.productService.UpdateProduct(product); err != nil {
		log.Error("Failed to store product image URL", err, map[string]interface{}{
			"sku": sku,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("Product image upload prepared", map[string]interface{}{
		"sku": sku,
		"key": upload.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": upload.UploadURL,
		"file_url":   upload.FileURL,
		"key":        upload.Key,
	})
}
