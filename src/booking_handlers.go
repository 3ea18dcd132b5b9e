package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"sbs/src/booking"
	"sbs/src/config"
	"sbs/src/lib"
	"sbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			data, err := getEngine().ListForUser(ctx, userId)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if err := getEngine().Cancel(ctx, params.ID, userId); err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/spots/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			viewerId := ctx.GetUint("id")
			full, redacted, err := getEngine().ListForSpot(ctx, params.ID, viewerId)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			if full != nil {
				ctx.JSON(http.StatusOK, gin.H{"data": full, "count": len(full)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": redacted, "count": len(redacted)})
		}).
		POST("/spots/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			requestId := ctx.GetHeader("X-Request-ID")
			if _, err := uuid.Parse(requestId); err != nil {
				requestId = ""
			}
			if requestId != "" {
				if cached := replayBookingRequest(requestId); cached != nil {
					ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
					return
				}
			}
			start, err := time.Parse(config.DATE_PARSE_FORMAT, body.StartDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			end, err := time.Parse(config.DATE_PARSE_FORMAT, body.EndDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booked, err := getEngine().Create(ctx, params.ID, userId, start, end)
			if err != nil {
				abortWithBookingError(ctx, err)
				return
			}
			payload, err := json.Marshal(gin.H{"data": booked})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
				return
			}
			if requestId != "" {
				cacheBookingRequest(requestId, payload)
			}
			ctx.Data(http.StatusCreated, "application/json; charset=utf-8", payload)
		})
	return g
}

// replayBookingRequest returns the cached response for an already processed
// request id, making booking creation safe to retry without re-running the
// commit.
func replayBookingRequest(requestId string) []byte {
	rd := lib.GetRedisClient()
	if rd == nil {
		return nil
	}
	cached, err := rd.Get(context.Background(), bookingRequestKey(requestId)).Result()
	if err != nil || !gjson.Valid(cached) {
		return nil
	}
	id := gjson.Get(cached, "data.id")
	log.Printf("Replaying booking request [%s]: Booking [%d]\n", requestId, id.Uint())
	return []byte(cached)
}

func cacheBookingRequest(requestId string, payload []byte) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if _, err := rd.SetEx(context.Background(), bookingRequestKey(requestId), string(payload), 10*time.Minute).Result(); err != nil {
		log.Printf("Error caching value [%s]: %s\n", requestId, err.Error())
	}
}

func bookingRequestKey(requestId string) string {
	return "booking-request:" + requestId
}

func abortWithBookingError(ctx *gin.Context, err error) {
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error(), "conflicts": conflict.ConflictIDs()})
		return
	}
	switch {
	case errors.Is(err, booking.ErrSpotNotFound), errors.Is(err, booking.ErrBookingNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidRange), errors.Is(err, booking.ErrPastStart), errors.Is(err, booking.ErrAlreadyStarted):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrStoreUnavailable):
		log.Printf("Store failure: %s\n", err.Error())
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while processing request"})
	default:
		log.Printf("Unexpected error: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
	}
}
