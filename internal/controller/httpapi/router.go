// Пакет httpapi содержит публичный HTTP-интерфейс клиентской записи.
// Авторизация не нужна: страница записи открыта анонимным клиентам,
// тенант определяется идентификатором тренера в пути.
package httpapi

import (
	"net/http"

	"github.com/fitbook/booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(bookings *service.BookingService, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &handler{bookings: bookings, logger: logger}

	api := router.Group("/api/v1")
	{
		api.GET("/trainers/:trainerID/offers/:offerID/dates", h.listDates)
		api.GET("/trainers/:trainerID/offers/:offerID/slots", h.listSlots)
		api.POST("/trainers/:trainerID/offers/:offerID/bookings", h.createBooking)
		api.DELETE("/bookings/:reference", h.cancelBooking)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
