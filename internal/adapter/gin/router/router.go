package router

import (
	_ "embed"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/handler"
	"court-service/internal/adapter/gin/middleware"
	grpcmiddleware "court-service/internal/adapter/grpc/middleware"
	"court-service/internal/domain/auth"
	"court-service/pkg/metrics"
)

// openAPISpec is served at /swagger/doc.json for the Swagger UI.
//
//go:embed openapi.json
var openAPISpec []byte

// Handlers groups the REST handlers mounted by SetupRouter.
type Handlers struct {
	Auth          *handler.AuthHandler
	Transcription *handler.TranscriptionHandler
	Identity      *handler.IdentityHandler
	Cases         *handler.CaseHandler
	Warrants      *handler.WarrantHandler
	VirtualCourt  *handler.VirtualCourtHandler
	Judicial      *handler.JudicialHandler
	Anonymize     *handler.AnonymizeHandler
	Health        *handler.HealthHandler
	Users         *handler.UserHandler
}

// Features toggles optional modules.
type Features struct {
	VirtualCourt    bool
	DecisionSupport bool
	WarrantTransfer bool
}

// Options configures SetupRouter.
type Options struct {
	BasePath      string
	CORSOrigins   []string
	Features      Features
	Authenticator middleware.Authenticator
	RateLimiter   *grpcmiddleware.RateLimiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	EnablePprof   bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(h Handlers, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	m := opts.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(m))
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	router.Use(middleware.RateLimiter(opts.RateLimiter, log))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", swagger())
	router.GET("/health", h.Health.Health)

	api := router.Group(opts.BasePath)
	if opts.BasePath != "" && opts.BasePath != "/" {
		api.GET("/health", h.Health.Health)
	}

	authn := middleware.Auth(opts.Authenticator)
	officers := middleware.RequireRoles(auth.RoleJudge, auth.RoleStenographer, auth.RoleClerk)
	judges := middleware.RequireRoles(auth.RoleJudge, auth.RoleAdmin)
	registry := middleware.RequireRoles(auth.RoleJudge, auth.RoleClerk, auth.RoleAdmin)

	if opts.EnablePprof {
		router.GET("/debug/pprof/*any", authn, middleware.RequireRoles(auth.RoleAdmin), gin.WrapH(pprofMux()))
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", authn, h.Auth.Logout)
		authGroup.GET("/me", authn, h.Auth.Me)
	}

	users := api.Group("/users", authn, middleware.RequireRoles(auth.RoleAdmin))
	{
		users.POST("", h.Users.CreateUser)
		users.GET("", h.Users.ListUsers)
		users.GET("/:id", h.Users.GetUser)
		users.PUT("/:id", h.Users.UpdateUser)
		users.DELETE("/:id", h.Users.DeactivateUser)
	}

	transcription := api.Group("/transcription", authn)
	{
		transcription.POST("/session/start", officers, h.Transcription.StartSession)
		transcription.POST("/session/:id/stop", officers, h.Transcription.StopSession)
		transcription.GET("/session/:id", h.Transcription.GetSession)
		transcription.GET("/session/:id/stream", h.Transcription.Stream)
		transcription.POST("/real-time", officers, h.Transcription.RealTime)
		transcription.POST("/jobs", officers, h.Transcription.SubmitJob)
		transcription.GET("/jobs", h.Transcription.ListJobs)
		transcription.GET("/job/:id", h.Transcription.GetJob)
		transcription.GET("/job/:id/result", h.Transcription.GetJobResult)
		transcription.DELETE("/job/:id", h.Transcription.DeleteJob)
	}

	identity := api.Group("/identity", authn)
	{
		identity.POST("/verify", h.Identity.VerifyNIN)
		identity.POST("/verify-official", h.Identity.VerifyOfficial)
	}

	cases := api.Group("/cases", authn)
	{
		cases.GET("", h.Cases.ListCases)
		cases.POST("", registry, h.Cases.CreateCase)
		cases.GET("/:id", h.Cases.GetCase)
		cases.PUT("/:id", registry, h.Cases.UpdateCase)
		cases.GET("/:id/documents", h.Cases.ListDocuments)
		cases.POST("/:id/documents",
			middleware.RequireRoles(auth.RoleJudge, auth.RoleClerk, auth.RoleAdmin, auth.RoleProsecutor, auth.RoleDefenseCounsel),
			h.Cases.UploadDocument)
	}

	warrants := api.Group("/warrants", authn)
	{
		warrants.GET("/types", h.Warrants.Types)
		warrants.GET("/agencies", h.Warrants.Agencies)
		warrants.GET("", h.Warrants.List)
		warrants.POST("", middleware.RequireRoles(auth.RoleJudge), h.Warrants.Issue)
		warrants.GET("/:id", h.Warrants.Get)
		warrants.GET("/:id/status", h.Warrants.Status)
		warrants.POST("/:id/transfer",
			middleware.FeatureGate(opts.Features.WarrantTransfer, "warrant transfer"),
			middleware.RequireRoles(auth.RoleJudge, auth.RoleClerk),
			h.Warrants.Transfer)
		warrants.POST("/:id/revoke", middleware.RequireRoles(auth.RoleJudge), h.Warrants.Revoke)
		warrants.POST("/:id/verify", h.Warrants.Verify)
	}

	virtual := api.Group("/virtual-court", middleware.FeatureGate(opts.Features.VirtualCourt, "virtual court"), authn)
	{
		virtual.POST("/sessions", middleware.RequireRoles(auth.RoleJudge, auth.RoleClerk), h.VirtualCourt.CreateSession)
		virtual.GET("/sessions", h.VirtualCourt.ListSessions)
		virtual.GET("/sessions/:id", h.VirtualCourt.GetSession)
		virtual.POST("/sessions/:id/join", h.VirtualCourt.Join)
		virtual.POST("/sessions/:id/leave", h.VirtualCourt.Leave)
		virtual.POST("/sessions/:id/start", middleware.RequireRoles(auth.RoleJudge), h.VirtualCourt.Start)
		virtual.POST("/sessions/:id/end", middleware.RequireRoles(auth.RoleJudge), h.VirtualCourt.End)
		virtual.POST("/sessions/:id/postpone", middleware.RequireRoles(auth.RoleJudge), h.VirtualCourt.Postpone)
		virtual.POST("/sessions/:id/cancel", middleware.RequireRoles(auth.RoleJudge), h.VirtualCourt.Cancel)
	}

	judicial := api.Group("/judicial", authn)
	{
		judicial.GET("/decision-support/:id",
			middleware.FeatureGate(opts.Features.DecisionSupport, "decision support"),
			judges,
			h.Judicial.DecisionSupport)
		judicial.GET("/precedents", h.Judicial.SearchPrecedents)
	}

	anonymize := api.Group("/anonymize", authn)
	{
		anonymize.GET("/entity-types", h.Anonymize.EntityTypes)
		anonymize.POST("/text", h.Anonymize.Text)
		anonymize.POST("/transcript", h.Anonymize.Transcript)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-Id"},
		AllowWebSockets:  true,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// pprofMux registers the net/http/pprof handlers at their canonical paths.
func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// swagger serves the embedded document and the Swagger UI around it.
func swagger() gin.HandlerFunc {
	ui := httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
	return func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			c.Data(http.StatusOK, "application/json; charset=utf-8", openAPISpec)
			return
		}
		ui(c.Writer, c.Request)
	}
}
