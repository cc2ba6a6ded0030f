// Package api is the HTTP surface: the gin router, its middleware chain, and
// the handlers for auth, users, catalogs, and the health endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/CodeAfu/apu-code-collab-api/docs" // register generated Swagger spec

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/CodeAfu/apu-code-collab-api/internal/auth"
	"github.com/CodeAfu/apu-code-collab-api/internal/config"
	"github.com/CodeAfu/apu-code-collab-api/internal/github"
	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

// authService is the subset of *auth.Service the handlers call.
type authService interface {
	Login(ctx context.Context, apuID, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	IssuePair(ctx context.Context, user *storage.User) (*auth.TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*storage.User, error)
}

// userStore is the subset of *storage.UserStore the handlers call.
type userStore interface {
	List(ctx context.Context) ([]storage.User, error)
	GetByID(ctx context.Context, id string) (*storage.User, error)
	GetByEmail(ctx context.Context, email string) (*storage.User, error)
	Exists(ctx context.Context, email, apuID string) (bool, error)
	Create(ctx context.Context, u *storage.User) (*storage.User, error)
	Delete(ctx context.Context, id string) error
	LinkGitHub(ctx context.Context, userID string, ghID int64, username, accessToken, avatarURL string) error
	UnlinkGitHub(ctx context.Context, userID string) error
}

// catalogStore is the subset of *storage.CatalogStore the handlers call.
type catalogStore interface {
	ListLanguages(ctx context.Context) ([]storage.ProgrammingLanguage, error)
	GetLanguage(ctx context.Context, id string) (*storage.ProgrammingLanguage, error)
	CreateLanguage(ctx context.Context, name string, addedBy *string) (bool, error)
	UpdateLanguage(ctx context.Context, id, newName string) error
	DeleteLanguage(ctx context.Context, id string) error
	ListFrameworks(ctx context.Context) ([]storage.Framework, error)
	GetFramework(ctx context.Context, id string) (*storage.Framework, error)
	CreateFramework(ctx context.Context, name string, addedBy *string) (bool, error)
	UpdateFramework(ctx context.Context, id, newName string) error
	DeleteFramework(ctx context.Context, id string) error
	ListCourses(ctx context.Context) ([]storage.UniversityCourse, error)
}

// repositoryStore is the subset of *storage.RepositoryStore the handlers call.
type repositoryStore interface {
	ListByUser(ctx context.Context, userID string) ([]storage.GithubRepository, error)
	Upsert(ctx context.Context, r *storage.GithubRepository) error
	Delete(ctx context.Context, userID, repoID string) error
}

// githubClient is the subset of *github.Client the OAuth handlers call.
type githubClient interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, accessToken string) (*github.Profile, error)
}

// Prober is one dependency health probe, implemented by *storage.Prober.
type Prober interface {
	Probe(ctx context.Context) storage.ProbeResult
}

// readiness gates /ready on the boot pipeline outcome.
type readiness interface {
	Ready() bool
}

// Handler holds the dependencies shared across all HTTP handlers.
type Handler struct {
	cfg     *config.Config
	auth    authService
	users   userStore
	catalog catalogStore
	repos   repositoryStore
	github  githubClient
	probers []Prober
	boot    readiness
	log     *slog.Logger
}

// Deps bundles everything NewRouter needs.
type Deps struct {
	Config  *config.Config
	Auth    authService
	Users   userStore
	Catalog catalogStore
	Repos   repositoryStore
	GitHub  githubClient
	Probers []Prober
	Boot    readiness
	Limiter *Limiter
	Logger  *slog.Logger
}

// Router wraps a configured Gin engine and exposes it as an http.Handler.
type Router struct {
	engine *gin.Engine
}

// NewRouter constructs a Router with the full middleware chain and all routes
// registered. Middleware order: Recovery first so panics anywhere below it
// still produce a 500 envelope, then trace context, then request logging.
func NewRouter(d Deps) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.Use(Recovery(logger))
	engine.Use(Tracing(d.Config.Telemetry.ServiceName))
	engine.Use(RequestLogger(logger))

	h := &Handler{
		cfg:     d.Config,
		auth:    d.Auth,
		users:   d.Users,
		catalog: d.Catalog,
		repos:   d.Repos,
		github:  d.GitHub,
		probers: d.Probers,
		boot:    d.Boot,
		log:     logger,
	}

	rl := d.Limiter
	authed := RequireAuth(d.Auth)
	staff := RequireRole(storage.RoleTeacher, storage.RoleAdmin)

	engine.GET("/", h.Root)
	engine.GET("/health", h.Health)
	engine.GET("/health/deep", h.DeepHealth)
	engine.GET("/ready", h.Ready)

	v1 := engine.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", rl.Limit(5, time.Hour), h.Register)
	authGroup.POST("/token", rl.Limit(10, time.Minute), h.Login)
	authGroup.POST("/refresh", rl.Limit(60, time.Hour), h.RefreshToken)
	authGroup.POST("/logout", rl.Limit(10, time.Minute), h.Logout)

	gh := authGroup.Group("/github")
	gh.GET("/login", h.GitHubLogin)
	gh.GET("/callback", h.GitHubCallback)
	gh.POST("/disconnect", authed, h.GitHubDisconnect)
	gh.GET("/status", authed, h.GitHubStatus)

	users := v1.Group("/users")
	users.GET("/", h.ListUsers)
	users.GET("/:id", rl.Limit(60, time.Minute), h.GetUser)
	users.POST("", rl.Limit(10, time.Minute), h.CreateUser)
	users.DELETE("/:id", rl.Limit(10, time.Minute), h.DeleteUser)
	users.GET("/:id/repositories", rl.Limit(60, time.Minute), h.ListRepositories)
	users.PUT("/:id/repositories", rl.Limit(10, time.Minute), authed, h.ShareRepository)
	users.DELETE("/:id/repositories/:repo_id", rl.Limit(10, time.Minute), authed, h.DeleteRepository)

	langs := v1.Group("/programming_languages", authed)
	langs.GET("/", rl.Limit(60, time.Minute), h.ListLanguages)
	langs.GET("/count", rl.Limit(60, time.Minute), h.CountLanguages)
	langs.GET("/:id", rl.Limit(60, time.Minute), h.GetLanguage)
	langs.POST("", rl.Limit(10, time.Minute), staff, h.CreateLanguage)
	langs.PUT("/:id", rl.Limit(10, time.Minute), staff, h.UpdateLanguage)
	langs.DELETE("/:id", rl.Limit(10, time.Minute), staff, h.DeleteLanguage)

	fws := v1.Group("/frameworks", authed)
	fws.GET("/", rl.Limit(60, time.Minute), h.ListFrameworks)
	fws.GET("/count", rl.Limit(60, time.Minute), h.CountFrameworks)
	fws.GET("/:id", rl.Limit(60, time.Minute), h.GetFramework)
	fws.POST("", rl.Limit(10, time.Minute), staff, h.CreateFramework)
	fws.PUT("/:id", rl.Limit(10, time.Minute), staff, h.UpdateFramework)
	fws.DELETE("/:id", rl.Limit(10, time.Minute), staff, h.DeleteFramework)

	v1.GET("/university_courses", rl.Limit(20, time.Minute), h.ListCourses)

	// API docs — http://localhost:8000/api-docs
	engine.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/api-docs/index.html")
	})
	engine.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Router{engine: engine}
}

// Handler returns the underlying http.Handler for use with net/http servers.
func (r *Router) Handler() http.Handler {
	return r.engine
}
