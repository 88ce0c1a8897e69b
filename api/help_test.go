package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/utils"
)

type helpResponse struct {
	Result schema.HelpRequest `json:"result"`
}

type helpListResponse struct {
	Result []schema.HelpRequest `json:"result"`
}

func createBody(zip string) map[string]interface{} {
	return map[string]interface{}{
		"zip_code": zip,
		"articles": []map[string]interface{}{
			{"description": "milk", "quantity": 2},
		},
	}
}

func (e *testEnv) createHelp(token, zip string) schema.HelpRequest {
	w := e.do("POST", "/api/help-requests", token, createBody(zip))
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var resp helpResponse
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Result
}

func TestHelpRequestsRequireToken(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	w := e.do("POST", "/api/help-requests", "", createBody("10001"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(1001), decodeError(t, w).Code)

	w = e.do("GET", "/api/help-requests", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int64(1003), decodeError(t, w).Code)
}

func TestCreateHelpRequest(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	body := createBody("10001")
	body["requester_id"] = "someone-else"
	body["status"] = "DONE"

	w := e.do("POST", "/api/help-requests", e.token("u1"), body)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp helpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u1", resp.Result.RequesterID)
	assert.Equal(t, schema.HelpPending, resp.Result.Status)
	assert.Equal(t, "10001", resp.Result.ZipCode)
	assert.Equal(t, schema.Articles{{Description: "milk", Quantity: 2}}, resp.Result.Articles)
}

func TestCreateHelpRequestValidation(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	w := e.do("POST", "/api/help-requests", e.token("u1"), map[string]interface{}{
		"zip_code": "10001",
		"articles": []interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, int64(1203), resp.Code)
	assert.Equal(t, "articles", resp.Details["field"])

	w = e.do("POST", "/api/help-requests", e.token("u1"), map[string]interface{}{
		"zip_code": 10001,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(1011), decodeError(t, w).Code)
}

func TestUpdateHelpRequestTransitions(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	requester := e.token("u1")
	helper := e.token("u2")
	h := e.createHelp(requester, "10001")
	path := "/api/help-requests/" + h.ID.String()

	w := e.do("PUT", path, requester, map[string]interface{}{"status": "Done"})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, int64(1201), resp.Code)
	assert.Equal(t, "PENDING", resp.Details["from"])
	assert.Equal(t, "DONE", resp.Details["to"])

	w = e.do("PUT", path, requester, map[string]interface{}{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(1202), decodeError(t, w).Code)

	w = e.do("PUT", path, helper, map[string]interface{}{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated helpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, schema.HelpAccepted, updated.Result.Status)
	assert.Equal(t, "u2", updated.Result.HelperID)

	w = e.do("PUT", path, helper, map[string]interface{}{"status": "UNKNOWN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decodeError(t, w).Details["field"])
}

func TestUpdateHelpRequestFields(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	requester := e.token("u1")
	h := e.createHelp(requester, "10001")
	path := "/api/help-requests/" + h.ID.String()

	w := e.do("PUT", path, e.token("u3"), map[string]interface{}{"zip_code": "20002"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do("PUT", path, requester, map[string]interface{}{
		"zip_code": "20002",
		"articles": []map[string]interface{}{{"description": "eggs", "quantity": 12}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp helpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "20002", resp.Result.ZipCode)
	assert.Equal(t, schema.Articles{{Description: "eggs", Quantity: 12}}, resp.Result.Articles)
	assert.Equal(t, schema.HelpPending, resp.Result.Status)
}

func TestGetHelpRequest(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	token := e.token("u1")
	h := e.createHelp(token, "10001")

	e.directory.EXPECT().GetProfile(gomock.Any(), "u1").
		Return(&schema.Profile{AccountID: "u1", Name: "Ann"}, nil)

	w := e.do("GET", "/api/help-requests/"+h.ID.String(), e.token("u2"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp helpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, h.ID, resp.Result.ID)
	if assert.NotNil(t, resp.Result.Requester) {
		assert.Equal(t, "Ann", resp.Result.Requester.Name)
	}

	w = e.do("GET", "/api/help-requests/2c4a8a9e-55a0-4b8c-9a43-6a8f1c4f1d11", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(1200), decodeError(t, w).Code)
}

func TestListHelpRequests(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	ann := e.token("u1")
	bob := e.token("u2")
	e.createHelp(ann, "10001")
	e.createHelp(bob, "55555")
	e.createHelp(bob, "90210")

	list := func(path, token string) []schema.HelpRequest {
		w := e.do("GET", path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp helpListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Result
	}

	assert.Len(t, list("/api/help-requests", ann), 3)
	assert.Len(t, list("/api/help-requests?zipCode=10001&zipCode=90210", ann), 2)
	assert.Len(t, list("/api/help-requests?userId=me", bob), 2)
	assert.Len(t, list("/api/help-requests?userId=u1", bob), 1)
	assert.Len(t, list("/api/help-requests?status=pending", bob), 3)
	assert.Len(t, list("/api/help-requests?status=accepted", bob), 0)

	e.directory.EXPECT().GetProfiles(gomock.Any(), []string{"u2"}).
		Return(map[string]schema.Profile{"u2": {AccountID: "u2", Name: "Bob"}}, nil)

	helps := list("/api/help-requests?userId=u2&includeRequester=true", ann)
	require.Len(t, helps, 2)
	for _, h := range helps {
		if assert.NotNil(t, h.Requester) {
			assert.Equal(t, "Bob", h.Requester.Name)
		}
	}

	w := e.do("GET", "/api/help-requests?status=lost", ann, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(1203), decodeError(t, w).Code)
}

func TestListIncludeRequesterOnlyOnTrue(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	ann := e.token("u1")
	e.createHelp(ann, "10001")

	for _, value := range []string{"yes", "1", "TRUE", ""} {
		w := e.do("GET", "/api/help-requests?includeRequester="+value, ann, nil)
		require.Equal(t, http.StatusOK, w.Code, "includeRequester=%q: %s", value, w.Body.String())

		var resp helpListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Result, 1)
		assert.Nil(t, resp.Result[0].Requester, "includeRequester=%q", value)
	}
}

func TestUpdateHelpRequestByStranger(t *testing.T) {
	e := newTestEnv(t)
	defer e.ctrl.Finish()

	h := e.createHelp(e.token("u1"), "10001")
	path := "/api/help-requests/" + h.ID.String()

	w := e.do("PUT", path, e.token("u3"), map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(1202), decodeError(t, w).Code)

	w = e.do("PUT", path, e.token("u3"), map[string]interface{}{})
	require.Equal(t, http.StatusOK, w.Code)

	var resp helpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, h.UpdatedAt.Equal(resp.Result.UpdatedAt))
}

func TestLocalizedErrorMessage(t *testing.T) {
	require.NoError(t, utils.InitI18NBundle("../i18n"))

	e := newTestEnv(t)
	defer e.ctrl.Finish()

	w := e.do("GET", "/api/help-requests/2c4a8a9e-55a0-4b8c-9a43-6a8f1c4f1d11", e.token("u1"), nil, "Accept-Language", "zh-TW")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "找不到求助請求", decodeError(t, w).Message)

	w = e.do("GET", "/api/help-requests/2c4a8a9e-55a0-4b8c-9a43-6a8f1c4f1d11", e.token("u1"), nil)
	assert.Equal(t, "help request not found", decodeError(t, w).Message)
}
