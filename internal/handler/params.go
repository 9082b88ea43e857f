package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/service"
)

// Listing defaults applied when the query string leaves a parameter out.
// An explicit value is always passed through, so pageSize=0 still fails.
const (
	defaultSortBy    = "Id"
	defaultSortOrder = "desc"
)

// pageQuery reads pageNumber, pageSize, search, sortBy, sortOrder and any
// number of filter=field:comparator:value parameters.
func pageQuery(c *gin.Context, defaultPageSize int) (service.PageQuery, error) {
	var ferrs []service.FieldError
	intParam := func(name string, def int) int {
		raw, ok := c.GetQuery(name)
		if !ok {
			return def
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			ferrs = append(ferrs, service.FieldError{Field: name, Message: "must be an integer"})
		}
		return n
	}

	q := service.PageQuery{
		PageNumber: intParam("pageNumber", query.DefaultPageNumber),
		PageSize:   intParam("pageSize", defaultPageSize),
		Search:     c.Query("search"),
		SortBy:     c.DefaultQuery("sortBy", defaultSortBy),
		SortOrder:  c.DefaultQuery("sortOrder", defaultSortOrder),
	}
	if err := service.NewInvalidInputError(ferrs); err != nil {
		return service.PageQuery{}, err
	}
	for _, raw := range c.QueryArray("filter") {
		f, err := query.ParseFilter(raw)
		if err != nil {
			return service.PageQuery{}, err
		}
		q.Filters = append(q.Filters, f)
	}
	return q, nil
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a positive integer"}})
	}
	return id, nil
}

func malformedBody() error {
	return service.NewInvalidInputError([]service.FieldError{{Field: "body", Message: "malformed JSON"}})
}
