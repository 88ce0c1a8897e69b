package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/neighbor-api/background"
)

type fakeTaskSender struct {
	names []string
	err   error
}

func (f *fakeTaskSender) SendTask(signature *tasks.Signature) (*result.AsyncResult, error) {
	f.names = append(f.names, signature.Name)
	return nil, f.err
}

func TestAdminExpireRequests(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	sender := &fakeTaskSender{}
	e.server.background = sender
	e.server.adminKey = "admin-key"
	e.router = e.server.setupRouter()

	w := e.do("POST", "/secret/expire-help-requests", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do("POST", "/secret/expire-help-requests", "", nil, "Api-Token", "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do("POST", "/secret/expire-help-requests", "", nil, "Api-Token", "admin-key")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{background.TaskExpireHelpRequests}, sender.names)

	sender.err = errors.New("broker down")
	w = e.do("POST", "/secret/expire-help-requests", "", nil, "Api-Token", "admin-key")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminRoutesClosedWithoutKey(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	w := e.do("POST", "/secret/expire-help-requests", "", nil, "Api-Token", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
