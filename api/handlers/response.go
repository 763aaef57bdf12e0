package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/hotelfinder/db/kvdb"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/services/search"
)

const errBindFailed = "failed to extract request body parameters"

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// writeError aborts the request with the status matching err.
func writeError(c *gin.Context, logger logger.Logger, msg string, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, search.ErrValidation):
		statusCode = http.StatusNotAcceptable
	case errors.Is(err, kvdb.ErrNotFound):
		statusCode = http.StatusNotFound
	}

	if statusCode == http.StatusInternalServerError {
		logger.Error(msg, "path", c.Request.URL.Path, "err", err.Error())
	} else {
		logger.Warn(msg, "path", c.Request.URL.Path, "err", err.Error())
	}

	c.Abort()
	writeResponse(c, nil, statusCode, []string{err.Error()})
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
	TotalResults int  `json:"total_results"`
}

func calculatePagination(total, limit, offset int) Pagination {
	pageSize := limit
	currentPage := (offset / limit) + 1
	totalPages := (total + pageSize - 1) / pageSize

	if totalPages == 0 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
		TotalResults: total,
	}
}
