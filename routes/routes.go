package routes

import (
	"html/template"
	"net/http"
	"slices"

	"liff-member-backend/config"
	"liff-member-backend/controllers"
	"liff-member-backend/services"
	"liff-member-backend/utils"
	"liff-member-backend/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router hands to its controllers.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Registrar services.Registrar

	// Verifier checks LIFF tokens on registration. Nil disables the check.
	Verifier  utils.TokenVerifier
	Templates *template.Template
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl := deps.Templates
	if tmpl == nil {
		tmpl = template.Must(views.Templates())
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	r.Use(config.PerformanceLogger(logger))
	r.SetHTMLTemplate(tmpl)

	r.NoMethod(controllers.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, http.StatusNotFound, "Not found")
	})

	registerController := controllers.NewRegisterController(deps.Registrar)
	pages := controllers.NewPageController(cfg.Line.LiffID, cfg.Server.DefaultRoute)

	api := r.Group("/api")
	{
		registerHandlers := []gin.HandlerFunc{}
		if deps.Verifier != nil {
			registerHandlers = append(registerHandlers, utils.LineAuthMiddleware(deps.Verifier))
		}
		registerHandlers = append(registerHandlers, registerController.Register)
		api.POST("/auth/register", registerHandlers...)

		districts := api.Group("/districts")
		{
			districts.GET("", controllers.GetCities)
			districts.GET("/:city", controllers.GetDistricts)
		}
	}

	r.GET("/", controllers.RedirectToRegister)
	r.GET("/register", pages.RegisterPage)
	r.GET("/verify-email", pages.VerifyEmailPage)
	r.GET("/health", controllers.Health)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
