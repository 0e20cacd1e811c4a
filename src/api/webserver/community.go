package webserver

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Malathy01/LifecodeAI/src/store"
)

type Community struct {
	st        *store.Store
	sanitizer *bluemonday.Policy
}

func NewCommunity(st *store.Store) Community {
	// Posts render as plain text; strip all markup.
	return Community{st: st, sanitizer: bluemonday.StrictPolicy()}
}

func (h Community) ListPosts(c *gin.Context) {
	c.JSON(http.StatusOK, h.st.Posts())
}

func (h Community) CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required,min=1,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	content := h.sanitizer.Sanitize(req.Content)
	if content == "" || !utf8.ValidString(content) {
		c.JSON(http.StatusBadRequest, gin.H{"err": "post content is empty after sanitization"})
		return
	}

	post, err := h.st.PostExperience(c.GetString("uid"), content)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "no active session"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h Community) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required,min=1,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	content := h.sanitizer.Sanitize(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "comment is empty after sanitization"})
		return
	}

	post, err := h.st.AddPostComment(c.Param("id"), c.GetString("uid"), content)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, post)
	case errors.Is(err, store.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "post not found"})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"err": "no active session"})
	}
}

func (h Community) Like(c *gin.Context) {
	post, err := h.st.LikePost(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}
