package api

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bitmark-inc/neighbor-api/background"
	"github.com/bitmark-inc/neighbor-api/help"
	"github.com/bitmark-inc/neighbor-api/logmodule"
	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/store"
)

const defaultTokenExpiry = 24 * time.Hour

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	store      store.NeighborCore
	mongoStore store.MongoStore

	help *help.Service

	// JWT private key
	jwtPrivateKey *rsa.PrivateKey
	tokenExpiry   time.Duration

	limiter *rateLimiter

	// job queue of the background workers
	background background.TaskSender
	adminKey   string
}

// NewServer new instance of server
func NewServer(
	core store.NeighborCore,
	mongoStore store.MongoStore,
	directory store.UserDirectory,
	taskSender background.TaskSender,
	jwtKey *rsa.PrivateKey) *Server {
	tokenExpiry := time.Duration(viper.GetInt("jwt.expire")) * time.Hour
	if tokenExpiry <= 0 {
		tokenExpiry = defaultTokenExpiry
	}

	return &Server{
		store:         core,
		mongoStore:    mongoStore,
		help:          help.NewService(core, directory, logrus.WithField("prefix", "help")),
		jwtPrivateKey: jwtKey,
		tokenExpiry:   tokenExpiry,
		limiter:       newRateLimiter(viper.GetFloat64("ratelimit.rps"), viper.GetInt("ratelimit.burst")),
		background:    taskSender,
		adminKey:      viper.GetString("server.apikey.admin"),
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(instrument())
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IENoOpen:           true,
		ReferrerPolicy:     "no-referrer",
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.GET("/information", s.information)

	authRoute := apiRoute.Group("/auth")
	{
		authRoute.POST("/register", s.register)
		authRoute.POST("/login", s.login)
	}

	// api route other than `/information`, `/auth/register` and
	// `/auth/login` will apply the following middleware
	apiRoute.Use(s.authMiddleware())
	apiRoute.Use(s.limiter.middleware())

	apiRoute.POST("/auth/refresh", s.refreshJWT)

	accountRoute := apiRoute.Group("/accounts")
	accountRoute.Use(s.recognizeAccountMiddleware())
	{
		accountRoute.GET("/me", s.accountDetail)
	}

	helpRoute := apiRoute.Group("/help-requests")
	{
		helpRoute.GET("", s.listHelpRequests)
		helpRoute.POST("", s.createHelpRequest)
		helpRoute.GET("/:helpRequestID", s.getHelpRequest)
		helpRoute.PUT("/:helpRequestID", s.updateHelpRequest)
	}

	secretRoute := r.Group("/secret")
	secretRoute.Use(logmodule.Ginrus("Secret"))
	secretRoute.Use(apikeyAuthentication(s.adminKey))
	{
		secretRoute.POST("/expire-help-requests", s.adminExpireRequests)
	}

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(metricsHandler()))

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	if shouldInterupt(s.store.Ping(), c) {
		return
	}

	if shouldInterupt(s.mongoStore.Ping(), c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"help_statuses":  schema.HelpStatuses(),
			"system_version": "Neighborly 0.1",
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	obj = obj.localized(c.GetHeader("Accept-Language"))

	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
		if code >= http.StatusInternalServerError {
			captureException(c, err)
		}
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}

func captureException(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
