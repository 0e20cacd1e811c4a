package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Malathy01/LifecodeAI/src/store"
)

type Portal struct {
	st        *store.Store
	sanitizer *bluemonday.Policy
}

func NewPortal(st *store.Store) Portal {
	return Portal{st: st, sanitizer: bluemonday.StrictPolicy()}
}

// List returns the portal questions visible to the session: every case
// for professionals, the session's own for patients.
func (h Portal) List(c *gin.Context) {
	questions, err := h.st.Questions(c.GetString("uid"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "no active session"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// Respond attaches a clinician response to a question. Professionals
// only; the question id always comes from the route, never inferred from
// whatever verdict the caller happens to be viewing.
func (h Portal) Respond(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required,min=1,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	text := h.sanitizer.Sanitize(req.Text)
	question, err := h.st.RespondToQuestion(c.Param("id"), c.GetString("uid"), text)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, question)
	case errors.Is(err, store.ErrNotProfessional):
		c.JSON(http.StatusForbidden, gin.H{"err": "professional role required"})
	case errors.Is(err, store.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "question not found"})
	case errors.Is(err, store.ErrEmptyResponse):
		c.JSON(http.StatusBadRequest, gin.H{"err": "response text required"})
	case errors.Is(err, store.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"err": "no active session"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
