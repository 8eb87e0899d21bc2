package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/railgo/internal/domain"
	redisrepo "github.com/kirinyoku/railgo/internal/repository/redis"
	"github.com/kirinyoku/railgo/internal/service"
	"github.com/kirinyoku/railgo/internal/service/booking"
	"github.com/kirinyoku/railgo/internal/service/catalog"
	"github.com/kirinyoku/railgo/internal/service/inventory"
	"github.com/kirinyoku/railgo/internal/service/orders"
	"github.com/kirinyoku/railgo/internal/service/query"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health + metrics
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public API
	r.GET("/stations", handleListStations(svcs))
	r.GET("/crews", handleListCrew(svcs))

	r.GET("/journeys", handleListJourneys(svcs))
	r.GET("/journeys/:id", handleGetJourney(svcs))
	r.GET("/journeys/:id/availability", handleGetAvailability(svcs))
	r.GET("/journeys/:id/seats", handleListJourneySeats(svcs))

	r.POST("/orders", handleCreateOrder(svcs))
	r.GET("/orders", handleListOrders(svcs))
	r.GET("/orders/:id", handleGetOrder(svcs))

	r.POST("/tickets", handleCreateTicket(svcs, idem))
	r.GET("/tickets/:id", handleGetTicket(svcs))

	// Admin-API
	// TODO: add admin middleware
	admin := r.Group("/admin")
	{
		admin.POST("/stations", handleCreateStation(svcs))
		admin.POST("/train-types", handleCreateTrainType(svcs))
		admin.POST("/trains", handleCreateTrain(svcs))
		admin.POST("/routes", handleCreateRoute(svcs))
		admin.POST("/crews", handleCreateCrew(svcs))
		admin.POST("/journeys", handleCreateJourney(svcs))
		admin.POST("/seats/reserve", handleReserveSeat(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get journey summary
// @Param    id  path  int  true  "Journey ID"
// @Success  200  {object}  domain.JourneySummary
// @Failure  404  {object}  ErrorResponse
// @Router   /journeys/{id} [get]
func handleGetJourney(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		journeyID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if c.Query("view") == "detail" {
			d, err := svcs.Query.GetJourneyDetail(c.Request.Context(), journeyID)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, d)
			return
		}
		j, err := svcs.Query.GetJourneySummary(c.Request.Context(), journeyID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, http.StatusOK, j, "public, max-age=60", true)
	}
}

// @Summary  List journeys
// @Param    limit  query  int  false  "page size"
// @Param    offset query  int  false  "offset"
// @Success  200  {array}  domain.JourneySummary
// @Router   /journeys [get]
func handleListJourneys(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Query.ListJourneys(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  Get seat availability counters
// @Param    id  path  int  true  "Journey ID"
// @Success  200  {object}  domain.SeatCounts
// @Router   /journeys/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		journeyID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cnt, err := svcs.Query.CountsByJourney(c.Request.Context(), journeyID)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, http.StatusOK, cnt, "public, max-age=15", true)
	}
}

// @Summary  List journey seats
// @Param    id     path   int     true  "Journey ID"
// @Param    only   query  string  false "free"
// @Param    limit  query  int     false "page size"
// @Param    offset query  int     false "offset"
// @Success  200  {array}   domain.Seat
// @Router   /journeys/{id}/seats [get]
func handleListJourneySeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		journeyID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		onlyFree := c.Query("only") == "free" || c.Query("only_free") == "true"
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		seats, err := svcs.Query.ListJourneySeats(
			c.Request.Context(),
			journeyID,
			onlyFree,
			limit,
			offset,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// @Summary  Create order
// @Param    X-User-ID  header  int  true  "requesting user"
// @Success  201 {object} CreateOrderResponse
// @Router   /orders [post]
func handleCreateOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		o, err := svcs.Orders.CreateOrder(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateOrderResponse{
			OrderID:   o.ID.String(),
			CreatedAt: o.CreatedAt,
		})
	}
}

// @Summary  List own orders
// @Param    X-User-ID  header  int  true  "requesting user"
// @Success  200 {array} domain.Order
// @Router   /orders [get]
func handleListOrders(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Orders.ListOrders(c.Request.Context(), userID, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Get own order with tickets
// @Param    id  path  string  true  "Order ID (uuid)"
// @Param    X-User-ID  header  int  true  "requesting user"
// @Success  200 {object} domain.OrderWithTickets
// @Failure  404 {object} ErrorResponse "also returned for foreign orders"
// @Router   /orders/{id} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid order id")
			return
		}
		o, err := svcs.Orders.GetOrderWithTickets(c.Request.Context(), orderID, userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Buy a ticket (idempotent)
// @Param    req body  CreateTicketRequest true "payload"
// @Param    X-User-ID  header  int  true  "requesting user"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} CreateTicketResponse
// @Failure  400 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse "seat/journey/order not found"
// @Failure  409 {object} ErrorResponse "seat occupied / journey departed"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /tickets [post]
func handleCreateTicket(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CreateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			badRequest(c, "invalid order_id")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemTicket(req.JourneyID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		ticket, err := svcs.Booking.CreateTicket(
			c.Request.Context(),
			req.SeatID,
			req.JourneyID,
			orderID,
			userID,
			req.BaggageMassKg,
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, booking.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(
					http.StatusTooManyRequests,
					ErrorResponse{Error: "rate limited"},
				)
				return
			}
			respondErr(c, err)
			return
		}

		resp := CreateTicketResponse{
			TicketID:             ticket.ID.String(),
			SeatID:               ticket.SeatID,
			JourneyID:            ticket.JourneyID,
			OrderID:              ticket.OrderID.String(),
			CheckedBaggageCharge: ticket.CheckedBaggageCharge,
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Get ticket detail
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} domain.TicketDetail
// @Router   /tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid ticket id")
			return
		}
		t, err := svcs.Query.GetTicket(c.Request.Context(), ticketID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  List stations
// @Success  200 {array} domain.Station
// @Router   /stations [get]
func handleListStations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Catalog.ListStations(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  List crew
// @Success  200 {array} domain.Crew
// @Router   /crews [get]
func handleListCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Catalog.ListCrew(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Create station
// @Param    req body  CreateStationRequest true "payload"
// @Success  201 {object} CreateStationResponse
// @Router   /admin/stations [post]
func handleCreateStation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateStation(
			c.Request.Context(),
			req.Name,
			req.Latitude,
			req.Longitude,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateStationResponse{StationID: id})
	}
}

// @Summary  Create train type
// @Param    req body  CreateTrainTypeRequest true "payload"
// @Success  201 {object} CreateTrainTypeResponse
// @Router   /admin/train-types [post]
func handleCreateTrainType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTrainTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateTrainType(c.Request.Context(), req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateTrainTypeResponse{TrainTypeID: id})
	}
}

// @Summary  Create train
// @Param    req body  CreateTrainRequest true "payload"
// @Success  201 {object} CreateTrainResponse
// @Failure  400 {object} ErrorResponse "invalid baggage range"
// @Router   /admin/trains [post]
func handleCreateTrain(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTrainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateTrain(c.Request.Context(), domain.Train{
			Number:                req.Number,
			SeatCapacity:          req.SeatCapacity,
			TrainTypeID:           req.TrainTypeID,
			MinCheckedBaggageMass: req.MinCheckedBaggageMass,
			MaxCheckedBaggageMass: req.MaxCheckedBaggageMass,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateTrainResponse{TrainID: id})
	}
}

// @Summary  Create route
// @Param    req body  CreateRouteRequest true "payload"
// @Success  201 {object} CreateRouteResponse
// @Failure  400 {object} ErrorResponse "source equals destination"
// @Failure  409 {object} ErrorResponse "route already exists"
// @Router   /admin/routes [post]
func handleCreateRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateRoute(c.Request.Context(), domain.Route{
			SourceID:      req.SourceID,
			DestinationID: req.DestinationID,
			DistanceKm:    req.DistanceKm,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateRouteResponse{RouteID: id})
	}
}

// @Summary  Create crew member
// @Param    req body  CreateCrewRequest true "payload"
// @Success  201 {object} CreateCrewResponse
// @Router   /admin/crews [post]
func handleCreateCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCrewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Catalog.CreateCrew(c.Request.Context(), req.FirstName, req.LastName)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateCrewResponse{CrewID: id})
	}
}

// @Summary  Create journey and generate seats
// @Param    req body  CreateJourneyRequest true "payload"
// @Success  201 {object} CreateJourneyResponse
// @Failure  400 {object} ErrorResponse "arrival not after departure"
// @Router   /admin/journeys [post]
func handleCreateJourney(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateJourneyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		departure, err := parseRFC3339(req.DepartureTime)
		if err != nil {
			badRequest(c, "invalid departure_time (RFC3339)")
			return
		}
		arrival, err := parseRFC3339(req.ArrivalTime)
		if err != nil {
			badRequest(c, "invalid arrival_time (RFC3339)")
			return
		}
		id, err := svcs.Inventory.CreateJourney(
			c.Request.Context(),
			req.RouteID,
			req.TrainID,
			departure,
			arrival,
			req.CrewIDs,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateJourneyResponse{JourneyID: id})
	}
}

// @Summary  Reserve a seat without selling a ticket
// @Param    req body  ReserveSeatRequest true "payload"
// @Success  200 {object} ReserveSeatResponse
// @Failure  400 {object} ErrorResponse "seat belongs to another journey"
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seat already occupied"
// @Router   /admin/seats/reserve [post]
func handleReserveSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReserveSeatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seat, err := svcs.Booking.ReserveSeat(c.Request.Context(), req.SeatID, req.JourneyID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ReserveSeatResponse{
			SeatID:     seat.ID,
			JourneyID:  seat.JourneyID,
			Number:     seat.Number,
			IsOccupied: seat.IsOccupied,
		})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// currentUserID reads the request-scoped identity. Identity is an explicit
// parameter of the API, not ambient state; the gateway in front of this
// service is expected to authenticate and set the header.
func currentUserID(c *gin.Context) (int64, bool) {
	s := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if s == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing X-User-ID"})
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid X-User-ID"})
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// domain validation
	case errors.Is(err, domain.ErrInvalidRoute),
		errors.Is(err, domain.ErrInvalidDistance),
		errors.Is(err, domain.ErrInvalidBaggageRange),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrInvalidSchedule):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// catalog service
	case errors.Is(err, catalog.ErrStationConflict),
		errors.Is(err, catalog.ErrTrainTypeConflict),
		errors.Is(err, catalog.ErrTrainConflict),
		errors.Is(err, catalog.ErrRouteConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, catalog.ErrStationNotFound),
		errors.Is(err, catalog.ErrTrainTypeNotFound),
		errors.Is(err, catalog.ErrTrainNotFound),
		errors.Is(err, catalog.ErrRouteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	// inventory service
	case errors.Is(err, inventory.ErrRouteNotFound),
		errors.Is(err, inventory.ErrTrainNotFound),
		errors.Is(err, inventory.ErrCrewNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, inventory.ErrJourneyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	// booking service
	case errors.Is(err, booking.ErrJourneyNotFound),
		errors.Is(err, booking.ErrSeatNotFound),
		errors.Is(err, booking.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, booking.ErrSeatJourneyMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seat does not belong to the selected journey"})
		return
	case errors.Is(err, booking.ErrSeatAlreadyOccupied):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat is already occupied"})
		return
	case errors.Is(err, booking.ErrJourneyClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "journey already departed"})
		return
	case errors.Is(err, booking.ErrTicketConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "ticket conflict"})
		return
	// orders service
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
		return
	// query service
	case errors.Is(err, query.ErrJourneyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "journey not found"})
		return
	case errors.Is(err, query.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
