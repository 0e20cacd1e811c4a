package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Malathy01/LifecodeAI/src/store"
	"github.com/Malathy01/LifecodeAI/src/types"
)

type Auth struct {
	st        *store.Store
	jwtSecret []byte
}

func NewAuth(st *store.Store, secret []byte) Auth {
	return Auth{st: st, jwtSecret: secret}
}

// SignIn fabricates a session from the submitted form fields and returns
// a bearer token. The password is accepted and ignored; there is no
// server-side identity verification.
func (a Auth) SignIn(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"max=128"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password"`
		Role      string `json:"role" binding:"required,oneof=PATIENT PROFESSIONAL"`
		License   string `json:"licenseNumber" binding:"max=64"`
		Specialty string `json:"specialty" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	user := a.st.SignIn(store.SignInProfile{
		Name:          req.Name,
		Email:         req.Email,
		Role:          types.Role(req.Role),
		LicenseNumber: req.License,
		Specialty:     req.Specialty,
	})

	token, err := issueJWT(user.ID, user.Name, string(user.Role), a.jwtSecret)
	if err != nil {
		log.Printf("auth: failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
