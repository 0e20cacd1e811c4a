package webserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Malathy01/LifecodeAI/src/store"
)

type Claims struct {
	st *store.Store
}

func NewClaims(st *store.Store) Claims {
	return Claims{st: st}
}

// Analyze runs one claim analysis for the session. Every analysis failure
// collapses into a single generic message; details stay in the server log.
func (h Claims) Analyze(c *gin.Context) {
	var req struct {
		Text      string `json:"text" binding:"max=4000"`
		ImageData string `json:"imageData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	verdict, err := h.st.SubmitClaim(c.Request.Context(), c.GetString("uid"), req.Text, req.ImageData)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, verdict)
	case errors.Is(err, store.ErrEmptySubmission):
		c.JSON(http.StatusBadRequest, gin.H{"err": "claim text or image required"})
	case errors.Is(err, store.ErrAnalysisInFlight):
		c.JSON(http.StatusConflict, gin.H{"err": "analysis already in progress"})
	case errors.Is(err, store.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"err": "no active session"})
	default:
		log.Printf("claims: analysis error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"err": "analysis failed, try again"})
	}
}

// History returns the session's most recent verdicts, newest first.
func (h Claims) History(c *gin.Context) {
	c.JSON(http.StatusOK, h.st.History(c.GetString("uid")))
}

// Current returns the verdict the session is currently displaying.
func (h Claims) Current(c *gin.Context) {
	v := h.st.DisplayedVerdict(c.GetString("uid"))
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "no verdict displayed"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// Trending returns the static trending topics.
func (h Claims) Trending(c *gin.Context) {
	c.JSON(http.StatusOK, h.st.Trending())
}
