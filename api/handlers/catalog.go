package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/services/catalog"
	"github.com/meghashyamc/hotelfinder/services/index"
	"github.com/meghashyamc/hotelfinder/validation"
)

type HotelRequest struct {
	ID        string  `json:"id" validate:"max=64"`
	Name      string  `json:"name" validate:"required,max=200"`
	Address   string  `json:"address" validate:"max=500"`
	Price     int     `json:"price" validate:"gte=0"`
	Score     int     `json:"score" validate:"gte=0"`
	Brand     string  `json:"brand" validate:"max=100"`
	City      string  `json:"city" validate:"required,max=100"`
	StarName  string  `json:"starName" validate:"max=100"`
	Business  string  `json:"business" validate:"max=200"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Pic       string  `json:"pic" validate:"max=500"`
	IsAD      bool    `json:"isAD"`
}

func (r HotelRequest) hotel() catalog.Hotel {
	return catalog.Hotel{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Price:     r.Price,
		Score:     r.Score,
		Brand:     r.Brand,
		City:      r.City,
		StarName:  r.StarName,
		Business:  r.Business,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Pic:       r.Pic,
		IsAD:      r.IsAD,
	}
}

type ReindexResponse struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

func SetupCatalog(router *gin.Engine, logger logger.Logger, catalogService *catalog.Service, indexService *index.Service, validator *validation.Validator) {
	group := router.Group("/catalog")
	group.POST("/hotels", handleSaveHotel(catalogService, logger, validator))
	group.GET("/hotels/:id", handleGetHotel(catalogService, logger))
	group.DELETE("/hotels/:id", handleDeleteHotel(catalogService, logger))
	group.POST("/reindex", handleReindex(indexService, logger))
	group.GET("/reindex/:id", handleReindexStatus(indexService, logger))
}

func handleSaveHotel(service *catalog.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := HotelRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from hotel record", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{errBindFailed})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate hotel record", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		hotel, err := service.Save(c.Request.Context(), request.hotel())
		if err != nil {
			writeError(c, logger, "could not save hotel", err)
			return
		}

		writeResponse(c, hotel, http.StatusOK, nil)
	}
}

func handleGetHotel(service *catalog.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotel, err := service.Get(c.Param("id"))
		if err != nil {
			writeError(c, logger, "could not get hotel", err)
			return
		}

		writeResponse(c, hotel, http.StatusOK, nil)
	}
}

func handleDeleteHotel(service *catalog.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, logger, "could not delete hotel", err)
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func handleReindex(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()

		if err := service.Build(requestID); err != nil {
			if errors.Is(err, index.ErrInProgress) {
				c.Abort()
				writeResponse(c, nil, http.StatusConflict, []string{err.Error()})
				return
			}
			writeError(c, logger, "could not start reindex", err)
			return
		}

		writeResponse(c, ReindexResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleReindexStatus(service *index.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")

		progress, err := service.GetStatus(requestID)
		if err != nil {
			writeError(c, logger, "could not get reindex status", err)
			return
		}

		writeResponse(c, ReindexResponse{ID: requestID, Progress: progress}, http.StatusOK, nil)
	}
}
