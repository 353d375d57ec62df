package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/expertnet-backend/internal/config"
	"github.com/ignatzorin/expertnet-backend/internal/http/handlers"
	"github.com/ignatzorin/expertnet-backend/internal/http/middleware"
	"github.com/ignatzorin/expertnet-backend/internal/service"
)

// Handlers набор хэндлеров приложения. WS и Metrics необязательны.
type Handlers struct {
	Health     *handlers.HealthHandler
	Projects   *handlers.ProjectHandler
	Campaigns  *handlers.CampaignHandler
	Questions  *handlers.ScreeningQuestionHandler
	Vendors    *handlers.VendorHandler
	Experts    *handlers.ExpertHandler
	Interviews *handlers.InterviewHandler
	Team       *handlers.TeamMemberHandler
	WS         *handlers.WSHandler

	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

// SetupRouter собирает gin.Engine. resolver == nil отключает проверку токена.
func SetupRouter(cfg *config.Config, h Handlers, resolver service.IdentityResolver) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger(), middleware.Recovery())
	if h.Metrics != nil {
		r.Use(h.Metrics.Handler())
	}
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.NoRoute(middleware.NotFound)
	r.NoMethod(middleware.MethodNotAllowed)

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Health)
	if h.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(h.MetricsHandler))
	}
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	if cfg.RateLimitEnabled {
		api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	}

	// Соединение ленты долгоживущее, таймаут запроса к нему не применяется
	if h.WS != nil {
		api.GET("/ws", h.WS.Handle)
	}

	api.Use(middleware.RequestTimeout(cfg.StatementTimeout))

	vendors := api.Group("/vendors", middleware.UUIDValidator("id"))
	{
		vendors.GET("", h.Vendors.ListVendors)
		vendors.GET("/:id", h.Vendors.GetVendor)
	}

	protected := api.Group("", middleware.Auth(resolver))

	projects := protected.Group("/projects", middleware.UUIDValidator("id"))
	{
		projects.GET("", h.Projects.ListProjects)
		projects.POST("", h.Projects.CreateProject)
		projects.GET("/:id", h.Projects.GetProject)
		projects.PATCH("/:id", h.Projects.UpdateProject)
		projects.DELETE("/:id", h.Projects.DeleteProject)
	}

	campaigns := protected.Group("/campaigns", middleware.UUIDValidator("id", "vendor_id", "question_id"))
	{
		campaigns.GET("", h.Campaigns.ListCampaigns)
		campaigns.POST("", h.Campaigns.CreateCampaign)
		campaigns.GET("/:id", h.Campaigns.GetCampaign)
		campaigns.PATCH("/:id", h.Campaigns.UpdateCampaign)
		campaigns.DELETE("/:id", h.Campaigns.DeleteCampaign)

		campaigns.GET("/:id/vendors", h.Campaigns.ListEnrollments)
		campaigns.POST("/:id/vendors", h.Campaigns.EnrollVendor)
		campaigns.PATCH("/:id/vendors/:vendor_id", h.Campaigns.UpdateEnrollment)
		campaigns.DELETE("/:id/vendors/:vendor_id", h.Campaigns.UnenrollVendor)

		campaigns.GET("/:id/screening-questions", h.Questions.ListQuestions)
		campaigns.POST("/:id/screening-questions", h.Questions.CreateQuestion)
		campaigns.PATCH("/:id/screening-questions/:question_id", h.Questions.UpdateQuestion)
		campaigns.DELETE("/:id/screening-questions/:question_id", h.Questions.DeleteQuestion)
	}

	experts := protected.Group("/experts", middleware.UUIDValidator("id"))
	{
		experts.GET("", h.Experts.ListExperts)
		experts.POST("", h.Experts.CreateExpert)
		experts.GET("/:id", h.Experts.GetExpert)
		experts.PATCH("/:id", h.Experts.UpdateExpert)
		experts.DELETE("/:id", h.Experts.DeleteExpert)
		experts.GET("/:id/screening", h.Experts.ListScreeningResponses)
		experts.POST("/:id/screening", h.Experts.AddScreeningResponse)
	}

	interviews := protected.Group("/interviews", middleware.UUIDValidator("id"))
	{
		interviews.GET("", h.Interviews.ListInterviews)
		interviews.POST("", h.Interviews.ScheduleInterview)
		interviews.GET("/:id", h.Interviews.GetInterview)
		interviews.PATCH("/:id", h.Interviews.UpdateInterview)
		interviews.DELETE("/:id", h.Interviews.DeleteInterview)
	}

	team := protected.Group("/team-members", middleware.UUIDValidator("id", "campaign_id", "member_id"))
	{
		team.GET("", h.Team.ListTeamMembers)
		team.POST("", h.Team.CreateTeamMember)
		team.GET("/campaigns/:campaign_id", h.Team.ListCampaignTeam)
		team.POST("/campaigns/:campaign_id/assign/:member_id", h.Team.AssignToCampaign)
		team.DELETE("/campaigns/:campaign_id/assign/:member_id", h.Team.UnassignFromCampaign)
		team.GET("/:id", h.Team.GetTeamMember)
		team.PATCH("/:id", h.Team.UpdateTeamMember)
		team.DELETE("/:id", h.Team.DeleteTeamMember)
		team.POST("/:id/avatar", h.Team.UploadAvatar)
	}

	return r
}
