package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/store"
)

// accountDetail is the API to query the caller's account and profile
func (s *Server) accountDetail(c *gin.Context) {
	a := c.MustGet("account")
	account, ok := a.(*schema.Account)
	if !ok {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
		return
	}

	profile, err := s.mongoStore.GetProfile(c, account.ID.String())
	if err != nil && err != store.ErrProfileNotFound {
		shouldInterupt(err, c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": gin.H{
			"account": account,
			"profile": profile,
		},
	})
}
