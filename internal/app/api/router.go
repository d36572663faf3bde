package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/application"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
	"github.com/MR-MonkeyRay/emojikitchen/internal/emoji"
	sharederrors "github.com/MR-MonkeyRay/emojikitchen/internal/shared/errors"
)

// NewRouter builds the gin engine serving the kitchen API. Middleware must be
// passed here rather than attached afterwards: gin snapshots each route's
// handler chain at registration.
func NewRouter(service ports.Service, middleware ...gin.HandlerFunc) *gin.Engine {
	h := &handlers{
		service: service,
		problems: sharederrors.NewResponder("", func(err error) (sharederrors.ProblemDetail, bool) {
			if errors.Is(err, application.ErrUpstream) {
				return sharederrors.ErrUpstream.WithDetail("emoji kitchen CDN unreachable"), true
			}
			return sharederrors.ProblemDetail{}, false
		}),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", h.health)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/mix/:left/:right", h.mix)
		v1.GET("/dates", h.dates)
		v1.POST("/dates/refresh", h.refreshDates)
	}
	return router
}

type handlers struct {
	service  ports.Service
	problems *sharederrors.Responder
}

// mix resolves a pair of emoji (literal or hyphenated-codepoint form) to the
// composite PNG.
func (h *handlers) mix(c *gin.Context) {
	left, err := emoji.ParseArgument(c.Param("left"))
	if err != nil {
		h.problems.BadRequest(c, "left emoji is invalid")
		return
	}
	right, err := emoji.ParseArgument(c.Param("right"))
	if err != nil {
		h.problems.BadRequest(c, "right emoji is invalid")
		return
	}
	pair, err := domain.NewPair(left, right)
	if err != nil {
		h.problems.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), ports.ResolveInput{Pair: pair})
	if errors.Is(err, application.ErrNoCombination) {
		h.problems.NotFound(c, "combination", string(pair.Key()))
		return
	}
	if err != nil {
		h.problems.RespondError(c, err)
		return
	}
	if result.SourceDate != "" {
		c.Header("X-Source-Date", result.SourceDate.String())
	}
	c.Data(http.StatusOK, "image/png", result.Image)
}

// dates exposes the current candidate snapshot.
func (h *handlers) dates(c *gin.Context) {
	dates := h.service.CandidateDates(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(dates), "dates": dates})
}

// refreshDates triggers one remote date-list refresh.
func (h *handlers) refreshDates(c *gin.Context) {
	size, err := h.service.RefreshDates(c.Request.Context())
	if err != nil {
		h.problems.Respond(c, sharederrors.ErrUpstream.
			WithDetail("remote date list fetch failed").
			WithExtension("knownDates", size))
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": size})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
