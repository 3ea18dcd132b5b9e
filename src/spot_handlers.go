package main

import (
	"net/http"

	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/types"

	"github.com/gin-gonic/gin"
)

func spotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/spots", func(ctx *gin.Context) {
			var body types.CreateSpotRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			spot := models.Spot{
				OwnerID:     userId,
				Name:        body.Name,
				Description: body.Description,
				Address:     body.Address,
				City:        body.City,
				State:       body.State,
				Country:     body.Country,
				Lat:         body.Lat,
				Lng:         body.Lng,
				Price:       body.Price,
			}
			db := db.GetDb()
			if err := db.Create(&spot).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": spot})
		})
	return g
}

func publicRoutes(router *gin.Engine) {
	router.GET("/spots", func(ctx *gin.Context) {
		db := db.GetDb()
		var spots []models.Spot
		if err := db.Model(&models.Spot{}).Find(&spots).Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": spots, "count": len(spots)})
	})
	router.GET("/spots/:id", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		db := db.GetDb()
		var spot models.Spot
		if err := db.
			Model(&models.Spot{}).
			Where(&models.Spot{ID: params.ID}).
			First(&spot).
			Error; err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": spot})
	})
}
