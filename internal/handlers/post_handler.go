package handlers

import (
	"net/http"

	"visacenter_backend/internal/auth"
	"visacenter_backend/internal/middleware"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	*BaseHandler
	postService services.PostService
}

func NewPostHandler(base *BaseHandler, postService services.PostService) *PostHandler {
	return &PostHandler{
		BaseHandler: base,
		postService: postService,
	}
}

// RegisterRoutes: публичная витрина без аутентификации,
// управление контентом - только с правом записи по ресурсу post.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	{
		posts.GET("", h.ListPublished)
		posts.GET("/:slug", h.GetBySlug)
	}

	manage := rg.Group("/admin/posts")
	manage.Use(middleware.AuthMiddleware())
	manage.Use(middleware.RequirePermission(auth.ResourcePost, auth.ActionWrite))
	{
		manage.GET("", h.ListAll)
		manage.POST("", h.Create)
		manage.PUT("/:id", h.Update)
		manage.DELETE("/:id", h.Delete)
		manage.POST("/:id/publish", h.Publish)
		manage.POST("/:id/unpublish", h.Unpublish)
	}
}

func (h *PostHandler) ListPublished(c *gin.Context) {
	var query dto.ListPostsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	db := h.GetDB(c)

	posts, total, err := h.postService.ListPublished(db, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": posts, "total": total})
}

func (h *PostHandler) GetBySlug(c *gin.Context) {
	db := h.GetDB(c)

	post, err := h.postService.GetBySlug(db, c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) ListAll(c *gin.Context) {
	var query dto.ListPostsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	db := h.GetDB(c)

	posts, total, err := h.postService.ListAll(db, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": posts, "total": total})
}

func (h *PostHandler) Create(c *gin.Context) {
	authorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	post, err := h.postService.Create(db, authorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	var req dto.UpdatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	post, err := h.postService.Update(db, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	db := h.GetDB(c)

	if err := h.postService.Delete(db, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *PostHandler) Publish(c *gin.Context) {
	db := h.GetDB(c)

	post, err := h.postService.SetPublished(db, c.Param("id"), true)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Unpublish(c *gin.Context) {
	db := h.GetDB(c)

	post, err := h.postService.SetPublished(db, c.Param("id"), false)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
