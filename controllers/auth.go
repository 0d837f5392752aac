package controllers

import (
	"net/http"

	"liff-member-backend/services"
	"liff-member-backend/utils"

	"github.com/gin-gonic/gin"
)

// RegisterController serves the member registration endpoint.
type RegisterController struct {
	Registrar services.Registrar
}

func NewRegisterController(registrar services.Registrar) *RegisterController {
	return &RegisterController{Registrar: registrar}
}

// Register handles POST /api/auth/register.
func (rc *RegisterController) Register(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		MethodNotAllowed(c)
		return
	}
	if rc.Registrar == nil {
		respondWithRegistrationError(c, &services.RegistrationError{
			Kind:    services.KindConfigurationMissing,
			Message: services.MessageConfigMissing,
		})
		return
	}

	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	input.VerifiedLineID = c.GetString(utils.LineUserIDKey)

	user, err := rc.Registrar.Register(c.Request.Context(), input)
	if err != nil {
		respondWithRegistrationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": services.MessageRegistered,
		"user":    user,
	})
}

// MethodNotAllowed answers any method a route does not support.
func MethodNotAllowed(c *gin.Context) {
	utils.RespondWithError(c, http.StatusMethodNotAllowed, services.MessageMethodNotAllowed)
}

func respondWithRegistrationError(c *gin.Context, err error) {
	message := services.MessageRegisterFailed
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	utils.RespondWithError(c, statusForKind(services.KindOf(err)), message)
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindMissingIdentifier, services.KindDuplicateIdentifier, services.KindValidationFailed:
		return http.StatusBadRequest
	case services.KindTokenRejected:
		return http.StatusUnauthorized
	case services.KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
