package controllers

import (
	"net/http"

	"liff-member-backend/utils"

	"github.com/gin-gonic/gin"
)

// ConfirmationState is the state the confirmation page starts in.
type ConfirmationState string

const (
	ConfirmationInitializing ConfirmationState = "initializing"
	ConfirmationError        ConfirmationState = "error"
	ConfirmationReady        ConfirmationState = "ready"
)

const messageLiffInitFailed = "系統初始化失敗，請重新整理頁面"

// PageController renders the LIFF pages.
type PageController struct {
	LiffID       string
	DefaultRoute string
}

func NewPageController(liffID, defaultRoute string) *PageController {
	if defaultRoute == "" {
		defaultRoute = "/"
	}
	return &PageController{LiffID: liffID, DefaultRoute: defaultRoute}
}

// InitialConfirmationState is Error without a LIFF id, Initializing otherwise.
func (pc *PageController) InitialConfirmationState() ConfirmationState {
	if pc.LiffID == "" {
		return ConfirmationError
	}
	return ConfirmationInitializing
}

func (pc *PageController) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"LiffID":       pc.LiffID,
		"Cities":       utils.Cities(),
		"InitError":    pc.LiffID == "",
		"Rules":        utils.NewClientRules(),
		"ErrorMessage": messageLiffInitFailed,
	})
}

func (pc *PageController) VerifyEmailPage(c *gin.Context) {
	c.HTML(http.StatusOK, "verify_email.html", gin.H{
		"LiffID":       pc.LiffID,
		"DefaultRoute": pc.DefaultRoute,
		"State":        string(pc.InitialConfirmationState()),
		"ErrorMessage": messageLiffInitFailed,
	})
}

// RedirectToRegister sends the root path to the registration form.
func RedirectToRegister(c *gin.Context) {
	c.Redirect(http.StatusFound, "/register")
}
