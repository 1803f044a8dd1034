package router

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appointmenthandler "github.com/negatcare/clinic-api/internal/handler/appointment"
	authhandler "github.com/negatcare/clinic-api/internal/handler/auth"
	bookinghandler "github.com/negatcare/clinic-api/internal/handler/booking"
	contacthandler "github.com/negatcare/clinic-api/internal/handler/contact"
	healthhandler "github.com/negatcare/clinic-api/internal/handler/health"
	labresulthandler "github.com/negatcare/clinic-api/internal/handler/labresult"
	patienthandler "github.com/negatcare/clinic-api/internal/handler/patient"
	visithandler "github.com/negatcare/clinic-api/internal/handler/visit"
	"github.com/negatcare/clinic-api/internal/middleware"
	"github.com/negatcare/clinic-api/pkg/metrics"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidators installs the custom binding validators used by the
// request structs. Safe to call more than once.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
	}
}

type Handlers struct {
	Auth        *authhandler.Handler
	Patient     *patienthandler.Handler
	Visit       *visithandler.Handler
	LabResult   *labresulthandler.Handler
	Appointment *appointmenthandler.Handler
	Booking     *bookinghandler.Handler
	Contact     *contacthandler.Handler
	Health      *healthhandler.Handler
}

type Config struct {
	Mode        string
	CORS        middleware.CORSConfig
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
}

func New(cfg Config, h Handlers, authMW *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}

	h.Health.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		h.Auth.RegisterRoutes(api, authMW)
		h.Patient.RegisterRoutes(api, authMW)
		h.Visit.RegisterRoutes(api, authMW)
		h.LabResult.RegisterRoutes(api, authMW)
		h.Appointment.RegisterRoutes(api, authMW)
		h.Booking.RegisterRoutes(api, authMW, cfg.RateLimiter)
		h.Contact.RegisterRoutes(api, authMW, cfg.RateLimiter)
	}

	return r
}
