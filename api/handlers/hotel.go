package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/services/search"
	"github.com/meghashyamc/hotelfinder/validation"
)

const HeaderPaginationTotalCount = "X-Pagination-Total-Count"

// PageLimits bounds the page size accepted by /hotel/list.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

type HotelQueryRequest struct {
	Key      string   `json:"key" validate:"max=200"`
	Page     int      `json:"page" validate:"gte=0"`
	Size     int      `json:"size" validate:"gte=0"`
	SortBy   string   `json:"sortBy" validate:"valid_sort"`
	City     string   `json:"city" validate:"max=100"`
	Brand    string   `json:"brand" validate:"max=100"`
	StarName string   `json:"starName" validate:"max=100"`
	MinPrice any      `json:"minPrice"`
	MaxPrice any      `json:"maxPrice"`
	Location string   `json:"location" validate:"valid_location"`
}

func (r *HotelQueryRequest) setDefaults(limits PageLimits) {
	if r.Size == 0 {
		r.Size = limits.DefaultSize
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

func (r HotelQueryRequest) params() (search.Params, error) {
	minPrice, err := parsePriceBound("minPrice", r.MinPrice)
	if err != nil {
		return search.Params{}, err
	}
	maxPrice, err := parsePriceBound("maxPrice", r.MaxPrice)
	if err != nil {
		return search.Params{}, err
	}

	return search.Params{
		Key:      r.Key,
		Page:     r.Page,
		Size:     r.Size,
		SortBy:   r.SortBy,
		City:     r.City,
		Brand:    r.Brand,
		StarName: r.StarName,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Location: r.Location,
	}, nil
}

// parsePriceBound accepts a JSON number or a numeric string. Absent and blank bounds are nil.
func parsePriceBound(field string, value any) (*float64, error) {
	switch bound := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &bound, nil
	case string:
		bound = strings.TrimSpace(bound)
		if bound == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(bound, 64)
		if err != nil {
			return nil, &search.ValidationError{Field: field, Reason: "not a number"}
		}
		return &parsed, nil
	default:
		return nil, &search.ValidationError{Field: field, Reason: "not a number"}
	}
}

type SuggestionRequest struct {
	Key string `form:"key" validate:"max=100"`
}

type HotelListResponse struct {
	Total       uint64            `json:"total"`
	Hotels      []search.Document `json:"hotels"`
	PageDetails Pagination        `json:"page_details"`
}

func SetupHotel(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, limits PageLimits) {
	hotel := router.Group("/hotel")
	hotel.POST("/list", handleList(service, logger, validator, limits))
	hotel.POST("/filters", handleFilters(service, logger, validator, limits))
	hotel.GET("/suggestion", handleSuggestion(service, logger, validator))
}

func bindHotelQuery(c *gin.Context, logger logger.Logger, validator *validation.Validator, limits PageLimits) (*HotelQueryRequest, search.Params, bool) {
	request := HotelQueryRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Warn("could not extract expected params from hotel query", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusUnprocessableEntity, []string{errBindFailed})
		return nil, search.Params{}, false
	}
	request.setDefaults(limits)

	if err := validator.Validate(request); err != nil {
		logger.Warn("could not validate hotel query", "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return nil, search.Params{}, false
	}

	if limits.MaxSize > 0 && request.Size > limits.MaxSize {
		logger.Warn("page size too large", "size", request.Size, "max", limits.MaxSize)
		c.Abort()
		writeResponse(c, nil, http.StatusNotAcceptable, []string{fmt.Sprintf("size must not exceed %d", limits.MaxSize)})
		return nil, search.Params{}, false
	}

	params, err := request.params()
	if err != nil {
		writeError(c, logger, "could not read hotel query", err)
		return nil, search.Params{}, false
	}

	return &request, params, true
}

func handleList(service *search.Service, logger logger.Logger, validator *validation.Validator, limits PageLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, params, ok := bindHotelQuery(c, logger, validator, limits)
		if !ok {
			return
		}

		result, err := service.Search(c.Request.Context(), params)
		if err != nil {
			writeError(c, logger, "hotel search failed", err)
			return
		}

		c.Header(HeaderPaginationTotalCount, strconv.FormatUint(result.Total, 10))
		writeResponse(c, HotelListResponse{
			Total:  result.Total,
			Hotels: result.Hotels,
			PageDetails: calculatePagination(
				int(result.Total),
				request.Size,
				(request.Page-1)*request.Size),
		}, http.StatusOK, nil)
	}
}

func handleFilters(service *search.Service, logger logger.Logger, validator *validation.Validator, limits PageLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, params, ok := bindHotelQuery(c, logger, validator, limits)
		if !ok {
			return
		}

		facets, err := service.Filters(c.Request.Context(), params)
		if err != nil {
			writeError(c, logger, "hotel filters failed", err)
			return
		}

		writeResponse(c, facets, http.StatusOK, nil)
	}
}

func handleSuggestion(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SuggestionRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from suggestion request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{errBindFailed})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate suggestion request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		suggestions, err := service.Suggest(c.Request.Context(), request.Key)
		if err != nil {
			writeError(c, logger, "hotel suggestion failed", err)
			return
		}

		writeResponse(c, suggestions, http.StatusOK, nil)
	}
}
