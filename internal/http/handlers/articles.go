package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/models"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/uploads"
)

// ArticleHandler handles article CRUD endpoints.
type ArticleHandler struct {
	db    *gorm.DB
	store *uploads.Store
}

// NewArticleHandler constructs an ArticleHandler.
func NewArticleHandler(db *gorm.DB, store *uploads.Store) *ArticleHandler {
	return &ArticleHandler{db: db, store: store}
}

// articleResponse is the public JSON shape of an article.
type articleResponse struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url"`
	PDFURL    *string `json:"pdf_url"`
	CreatedAt string  `json:"created_at"`
}

// toResponse converts a stored article to its public shape.
func toResponse(a models.Article) articleResponse {
	return articleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		ImageURL:  a.ImagePath,
		PDFURL:    a.PDFPath,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns all articles, newest first.
func (h *ArticleHandler) List(c *gin.Context) {
	var articles []models.Article
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("created_at DESC, id DESC").
		Find(&articles).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error", "detail": "article query failed"})
		return
	}

	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// formFile returns the named upload when present, or nil when the field
// was omitted entirely.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	file, errFile := c.FormFile(field)
	if errFile != nil {
		return nil
	}
	return file
}

// Create validates a multipart submission, stores any attachments, and
// persists a new article. File writes and the row insert form one logical
// unit: a failed insert removes the files written for this request.
func (h *ArticleHandler) Create(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Title is required"})
		return
	}
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Content is required"})
		return
	}

	image := formFile(c, "image")
	pdf := formFile(c, "pdf")
	if image != nil && !uploads.AllowedExt(image.Filename, uploads.CategoryImages) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid image format"})
		return
	}
	if pdf != nil && !uploads.AllowedExt(pdf.Filename, uploads.CategoryPDFs) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid PDF format"})
		return
	}

	var saved []string
	cleanup := func() {
		for _, p := range saved {
			if errRemove := h.store.Remove(p); errRemove != nil {
				log.WithError(errRemove).WithField("path", p).Warn("cleanup of uploaded file failed")
			}
		}
	}

	article := models.Article{Title: title, Content: content}

	if image != nil {
		publicPath, errSave := h.store.Save(image, uploads.CategoryImages)
		if errSave != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error", "detail": "image upload failed"})
			return
		}
		saved = append(saved, publicPath)
		article.ImagePath = &publicPath
	}
	if pdf != nil {
		publicPath, errSave := h.store.Save(pdf, uploads.CategoryPDFs)
		if errSave != nil {
			cleanup()
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error", "detail": "pdf upload failed"})
			return
		}
		saved = append(saved, publicPath)
		article.PDFPath = &publicPath
	}

	errCreate := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&article).Error
	})
	if errCreate != nil {
		cleanup()
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error", "detail": "article creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":     "Article created successfully",
		"article": toResponse(article),
	})
}

// Delete removes an article row by id. Uploaded files referenced by the
// row are left in place. Repeated deletes of the same id report 404.
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Article not found"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.Article{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error", "detail": "article deletion failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Article deleted successfully"})
}
