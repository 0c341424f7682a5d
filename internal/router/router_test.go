package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"github.com/javajoker/license-server/internal/config"
	"github.com/javajoker/license-server/internal/database"
	"github.com/javajoker/license-server/internal/i18n"
	"github.com/javajoker/license-server/internal/middleware"
	"github.com/javajoker/license-server/internal/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type LicenseAPITestSuite struct {
	suite.Suite
	store  *database.MemoryLicenseStore
	router *gin.Engine
}

func (suite *LicenseAPITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	require.NoError(suite.T(), i18n.Initialize("en"))
}

func (suite *LicenseAPITestSuite) SetupTest() {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "memory", OperationTimeout: 5},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
		I18n:     config.I18nConfig{DefaultLocale: "en"},
	}
	suite.store = database.NewMemoryLicenseStore()
	suite.router = Initialize(suite.store, cfg, middleware.NewRateLimiter(rate.Inf, 1))
}

func (suite *LicenseAPITestSuite) do(method, path string, body interface{}) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(jsonData)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w.Code, response
}

func (suite *LicenseAPITestSuite) decodeLicense(raw json.RawMessage) models.License {
	var l models.License
	require.NoError(suite.T(), json.Unmarshal(raw, &l))
	return l
}

func (suite *LicenseAPITestSuite) TestLifecycleOverHTTP() {
	t := suite.T()

	code, resp := suite.do("POST", "/license/create", gin.H{"license": "ABC123", "wallet": "w1"})
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, resp.Success)
	created := suite.decodeLicense(resp.Data)
	assert.False(t, created.Activated)
	assert.Nil(t, created.Expiration)

	code, resp = suite.do("POST", "/license/activate", gin.H{"license": "ABC123", "days": 30})
	assert.Equal(t, http.StatusOK, code)
	activated := suite.decodeLicense(resp.Data)
	require.NotNil(t, activated.Expiration)

	code, resp = suite.do("POST", "/license/renew", gin.H{"license": "ABC123", "days": 10})
	assert.Equal(t, http.StatusOK, code)
	renewed := suite.decodeLicense(resp.Data)
	assert.Equal(t, *activated.Expiration+864_000, *renewed.Expiration)

	code, resp = suite.do("GET", "/license/get/ABC123", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, *renewed.Expiration, *suite.decodeLicense(resp.Data).Expiration)

	code, resp = suite.do("GET", "/license/status/ABC123", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"state":"active"`)

	code, resp = suite.do("POST", "/license/delete", gin.H{"license": "ABC123"})
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"deleted_count":1}`, string(resp.Data))

	code, resp = suite.do("GET", "/license/get/ABC123", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "LICENSE_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "License not found", resp.Error.Message)
}

func (suite *LicenseAPITestSuite) TestErrorStatusMapping() {
	t := suite.T()
	suite.do("POST", "/license/create", gin.H{"license": "NEW", "wallet": "w1"})

	code, resp := suite.do("POST", "/license/activate", gin.H{"license": "NEW", "days": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_DURATION", resp.Error.Code)

	code, resp = suite.do("POST", "/license/renew", gin.H{"license": "NEW", "days": 3})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "LICENSE_NOT_ACTIVATED", resp.Error.Code)

	suite.do("POST", "/license/activate", gin.H{"license": "NEW", "days": 1})
	code, resp = suite.do("POST", "/license/activate", gin.H{"license": "NEW", "days": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "LICENSE_ALREADY_ACTIVE", resp.Error.Code)

	code, resp = suite.do("POST", "/license/activate", gin.H{"license": "missing", "days": 1})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "LICENSE_NOT_FOUND", resp.Error.Code)

	code, resp = suite.do("POST", "/license/delete", gin.H{"license": "missing"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "LICENSE_DOES_NOT_EXIST", resp.Error.Code)
}

func (suite *LicenseAPITestSuite) TestRenewExpiredLicense() {
	_, err := suite.store.Insert(context.Background(), &models.License{
		License:    "OLD",
		Wallet:     "w1",
		Activated:  true,
		Expiration: models.Int64(1),
	})
	require.NoError(suite.T(), err)

	code, resp := suite.do("POST", "/license/renew", gin.H{"license": "OLD", "days": 3})
	assert.Equal(suite.T(), http.StatusBadRequest, code)
	assert.Equal(suite.T(), "LICENSE_EXPIRED", resp.Error.Code)
}

func (suite *LicenseAPITestSuite) TestCreateDuplicate() {
	suite.do("POST", "/license/create", gin.H{"license": "DUP", "wallet": "w1"})

	code, resp := suite.do("POST", "/license/create", gin.H{"license": "DUP", "wallet": "w1"})
	assert.Equal(suite.T(), http.StatusInternalServerError, code)
	assert.Equal(suite.T(), "Error happened when inserting data", resp.Error.Message)
}

func (suite *LicenseAPITestSuite) TestRequestValidation() {
	t := suite.T()

	code, resp := suite.do("POST", "/license/create", gin.H{"license": "bad key!", "wallet": "w1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, resp = suite.do("POST", "/license/create", gin.H{"license": "OK"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, resp = suite.do("POST", "/license/activate", "not an object")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func (suite *LicenseAPITestSuite) TestListByOwner() {
	t := suite.T()
	suite.do("POST", "/license/create", gin.H{"license": "A", "wallet": "w1"})
	suite.do("POST", "/license/create", gin.H{"license": "B", "wallet": "w1"})

	code, resp := suite.do("GET", "/license/all/w1", nil)
	assert.Equal(t, http.StatusOK, code)
	var licenses []models.License
	require.NoError(t, json.Unmarshal(resp.Data, &licenses))
	assert.Len(t, licenses, 2)

	code, resp = suite.do("GET", "/license/all/nobody", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func (suite *LicenseAPITestSuite) TestLocalizedErrors() {
	req, _ := http.NewRequest("GET", "/license/get/missing", nil)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "找不到授權", resp.Error.Message)
}

func (suite *LicenseAPITestSuite) TestHealthAndMetrics() {
	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var health struct {
		Status    string   `json:"status"`
		Languages []string `json:"languages"`
	}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(suite.T(), "healthy", health.Status)
	assert.ElementsMatch(suite.T(), []string{"en", "zh_TW"}, health.Languages)

	suite.do("GET", "/license/get/missing", nil)

	req, _ = http.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "license_operations_total")
}

func TestLicenseAPISuite(t *testing.T) {
	suite.Run(t, new(LicenseAPITestSuite))
}
