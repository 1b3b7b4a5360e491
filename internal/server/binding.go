package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindMessages maps struct field name and failed validation tag to the
// message returned to the client.
type bindMessages map[string]map[string]string

func bindJSON(c *gin.Context, req any, messages bindMessages, fallback string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c.Writer, http.StatusBadRequest, resolveBindError(err, messages, fallback))
		c.Abort()
		return false
	}
	return true
}

type idURI struct {
	ID uint `uri:"id" binding:"required"`
}

func bindID(c *gin.Context, notFound string) (uint, bool) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		writeError(c.Writer, http.StatusNotFound, notFound)
		c.Abort()
		return 0, false
	}
	return uri.ID, true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeError(c.Writer, http.StatusBadRequest, "Invalid query parameters.")
		c.Abort()
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}
