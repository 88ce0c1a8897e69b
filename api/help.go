package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/neighbor-api/help"
	"github.com/bitmark-inc/neighbor-api/schema"
)

// listHelpRequests is the API to browse help requests. Repeating `zipCode`
// or `status` matches any of the given values.
func (s *Server) listHelpRequests(c *gin.Context) {
	var params struct {
		UserID           string   `form:"userId"`
		ZipCodes         []string `form:"zipCode"`
		Statuses         []string `form:"status"`
		IncludeRequester string   `form:"includeRequester"`
	}

	if err := c.ShouldBindQuery(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	helps, err := s.help.GetAll(c, c.GetString("requester"), help.Filter{
		UserID:           params.UserID,
		ZipCodes:         params.ZipCodes,
		Statuses:         params.Statuses,
		IncludeRequester: params.IncludeRequester == "true",
	})
	if err != nil {
		abortWithHelpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": helps})
}

// createHelpRequest is the API for asking help from others
func (s *Server) createHelpRequest(c *gin.Context) {
	var params struct {
		ZipCode  string           `json:"zip_code"`
		Articles []schema.Article `json:"articles"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	h, err := s.help.Create(c, c.GetString("requester"), help.CreateInput{
		ZipCode:  params.ZipCode,
		Articles: params.Articles,
	})
	if err != nil {
		abortWithHelpError(c, err)
		return
	}

	helpRequestsCreated.Inc()
	c.JSON(http.StatusOK, gin.H{"result": h})
}

// getHelpRequest returns a single help request with its requester profile
func (s *Server) getHelpRequest(c *gin.Context) {
	h, err := s.help.Get(c, c.Param("helpRequestID"))
	if err != nil {
		abortWithHelpError(c, err)
		return
	}

	if err := s.help.AttachRequester(c, h); err != nil {
		abortWithHelpError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": h})
}

// updateHelpRequest changes articles, zip code or status of a help request
func (s *Server) updateHelpRequest(c *gin.Context) {
	var params struct {
		ZipCode  *string          `json:"zip_code"`
		Articles []schema.Article `json:"articles"`
		Status   *string          `json:"status"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	h, err := s.help.Update(c, c.GetString("requester"), c.Param("helpRequestID"), help.UpdateInput{
		ZipCode:  params.ZipCode,
		Articles: params.Articles,
		Status:   params.Status,
	})
	if err != nil {
		abortWithHelpError(c, err)
		return
	}

	if params.Status != nil {
		helpRequestUpdates.WithLabelValues(string(h.Status)).Inc()
	}

	c.JSON(http.StatusOK, gin.H{"result": h})
}

// abortWithHelpError maps errors of the help service to responses
func abortWithHelpError(c *gin.Context, err error) {
	var (
		validationErr *help.ValidationError
		notFoundErr   *help.NotFoundError
		transitionErr *help.InvalidTransitionError
		forbiddenErr  *help.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidHelpRequest.withDetails(map[string]interface{}{
			"field":  validationErr.Field,
			"reason": validationErr.Reason,
		}), err)
	case errors.As(err, &notFoundErr):
		abortWithEncoding(c, http.StatusNotFound, errorHelpRequestNotFound, err)
	case errors.As(err, &transitionErr):
		abortWithEncoding(c, http.StatusConflict, errorInvalidTransition.withDetails(map[string]interface{}{
			"from": transitionErr.From,
			"to":   transitionErr.To,
		}), err)
	case errors.As(err, &forbiddenErr):
		abortWithEncoding(c, http.StatusForbidden, errorForbidden, err)
	case err == help.ErrMissingPrincipal:
		abortWithEncoding(c, http.StatusUnauthorized, errorInvalidToken, err)
	default:
		log.WithError(err).Error("help request operation failed")
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
	}
}
