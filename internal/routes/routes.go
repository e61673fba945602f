package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xyz-asif/medcamp/internal/database"
	"github.com/xyz-asif/medcamp/internal/features/auth"
	"github.com/xyz-asif/medcamp/internal/features/camps"
	"github.com/xyz-asif/medcamp/internal/features/feedbacks"
	"github.com/xyz-asif/medcamp/internal/features/payments"
	"github.com/xyz-asif/medcamp/internal/features/registrations"
	"github.com/xyz-asif/medcamp/internal/features/users"
	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/payment"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/token"
)

const banner = "medical camp server running"

// Deps are the process-wide services built in main.
type Deps struct {
	Tokens   *token.Service
	Payments payment.Provider
	Currency string
	// Verifier and Uploader are optional; nil disables the feature.
	Verifier auth.IdentityVerifier
	Uploader camps.ImageUploader
}

// Handlers holds one handler per feature.
type Handlers struct {
	Auth          *auth.Handler
	Camps         *camps.Handler
	Users         *users.Handler
	Registrations *registrations.Handler
	Payments      *payments.Handler
	Feedbacks     *feedbacks.Handler
}

// Table is the full route table with the capability each route requires.
func Table(h Handlers) []access.Route {
	var table []access.Route
	for _, set := range [][]access.Route{
		auth.Routes(h.Auth),
		camps.Routes(h.Camps),
		users.Routes(h.Users),
		registrations.Routes(h.Registrations),
		payments.Routes(h.Payments),
		feedbacks.Routes(h.Feedbacks),
	} {
		table = append(table, set...)
	}
	return table
}

// Pinger reports store reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup builds every repository on db and mounts the API and operational endpoints.
func Setup(router *gin.Engine, db *database.MongoDB, deps Deps) {
	campRepo := camps.NewRepository(db.Database)
	userRepo := users.NewRepository(db.Database)
	regRepo := registrations.NewRepository(db.Database)
	paymentRepo := payments.NewRepository(db.Database)
	feedbackRepo := feedbacks.NewRepository(db.Database)

	h := Handlers{
		Auth:          auth.NewHandler(deps.Tokens, deps.Verifier),
		Camps:         camps.NewHandler(campRepo, deps.Uploader),
		Users:         users.NewHandler(userRepo),
		Registrations: registrations.NewHandler(registrations.NewService(regRepo, campRepo, db)),
		Payments:      payments.NewHandler(payments.NewService(paymentRepo, regRepo, deps.Payments, deps.Currency, db)),
		Feedbacks:     feedbacks.NewHandler(feedbackRepo),
	}

	guard := middleware.NewGuard(deps.Tokens, userRepo)
	guard.Mount(router, Table(h))

	System(router, db)
}

// System mounts the banner, health, metrics and Swagger endpoints.
func System(router *gin.Engine, pinger Pinger) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, banner)
	})

	router.GET("/health", func(c *gin.Context) {
		if err := pinger.Ping(c.Request.Context()); err != nil {
			response.ServiceUnavailable(c, "Database unreachable", "DB_UNAVAILABLE")
			return
		}
		response.Success(c, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)
}
