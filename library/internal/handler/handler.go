package handler

import (
	"net/http"
	"time"

	"github.com/Astemirdum/library-management/pkg/auth"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/serializer"
	"github.com/Astemirdum/library-management/pkg/validate"
	_ "github.com/Astemirdum/library-management/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// CookieConfig describes the refresh token cookie.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type Handler struct {
	librarySvc LibraryService
	verifier   md.AccessVerifier
	cookie     CookieConfig
	log        *zap.Logger
}

func New(librarySvc LibraryService, verifier md.AccessVerifier, cookie CookieConfig, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		verifier:   verifier,
		cookie:     cookie,
		log:        log.Named("handler"),
	}
}

// @title       Library Management API
// @version     1.0
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.JSONSerializer = serializer.JSONSerializer{}
	e.Validator = validate.NewCustomValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/refresh", h.Refresh, md.JwtIdentification(h.verifier))

	api = api.Group("", md.JwtAuthentication(h.verifier))
	api.POST("/logout", h.Logout)

	manageCatalog := md.RequirePermission(auth.PermManageCatalog)
	api.GET("/books", h.ListBooks, md.RequirePermission(auth.PermReadCatalog))
	api.GET("/book", h.GetBook, md.RequirePermission(auth.PermReadCatalog))
	api.POST("/book", h.CreateBook, manageCatalog)
	api.PATCH("/book", h.UpdateBook, manageCatalog)
	api.DELETE("/book", h.DeleteBook, manageCatalog)

	manageMembers := md.RequirePermission(auth.PermManageMembers)
	api.GET("/members", h.ListMembers, md.AuthorizeRoles(auth.RoleAdmin))
	api.GET("/member/:id", h.GetMember, md.RequirePermission(auth.PermReadMembers))
	api.PATCH("/member/:id", h.UpdateMember, manageMembers)
	api.DELETE("/member/:id", h.DeleteMember, manageMembers)

	manageLoans := md.RequirePermission(auth.PermManageLoans)
	api.POST("/transactions", h.IssueBook, md.RequirePermission(auth.PermBorrow))
	api.GET("/transactions", h.ListTransactions)
	api.POST("/transactions/:id/return", h.ReturnBook)
	api.GET("/transaction/:id", h.GetTransaction)
	api.PATCH("/transaction/:id", h.UpdateTransaction, manageLoans)
	api.DELETE("/transaction/:id", h.DeleteTransaction, manageLoans)

	return e
}

// Health
// @Summary  Liveness probe
// @Tags     manage
// @Success  200 {string} string "OK"
// @Router   /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
