package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/app/models/dto"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
	"github.com/yigit/degreeaudit/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorDetail {
	t.Helper()
	var body struct {
		Error dto.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHandleAPIError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewMalformedSpecError("Physics > Electives", "needs must be a number"), http.StatusUnprocessableEntity, dto.ErrorCodeMalformedSpec},
		{apperrors.NewMissingFieldError("courses"), http.StatusBadRequest, dto.ErrorCodeMissingField},
		{fmt.Errorf("loading: %w", apperrors.NewCustomError(apperrors.ErrAreaNotFound, "x")), http.StatusNotFound, dto.ErrorCodeAreaNotFound},
		{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeStudentNotFound},
		{apperrors.ErrAuditNotFound, http.StatusNotFound, dto.ErrorCodeAuditNotFound},
		{apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{apperrors.NewBadRequestError("no areas"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{fmt.Errorf("fetch: %w", apperrors.ErrAcquisitionFailed), http.StatusBadGateway, dto.ErrorCodeAcquisitionError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, dto.ErrorCodeTimeout},
		{errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestHandleAPIError_MalformedSpecCarriesPath(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.NewMalformedSpecError("Physics > Electives", "needs must be a number"))

	detail := decodeError(t, w)
	assert.Equal(t, "Physics > Electives", detail.Field)
	assert.Equal(t, "needs must be a number", detail.Details)
}

func authRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	t.Helper()
	m := NewAuthMiddleware(svc)
	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		claims, ok := GetClaims(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.Subject)
	})
	r.GET("/advisors", m.JWTAuth(), m.RoleRequired(models.RoleAdvisor), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour})
	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: -time.Hour})
	r := authRouter(t, svc)

	student, _, err := svc.GenerateToken("1001", models.RoleStudent)
	require.NoError(t, err)
	advisor, _, err := svc.GenerateToken("prof", models.RoleAdvisor)
	require.NoError(t, err)
	stale, _, err := expired.GenerateToken("1001", models.RoleStudent)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		code   dto.ErrorCode
	}{
		{"student", "/me", "Bearer " + student, http.StatusOK, ""},
		{"missing header", "/me", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage", "/me", "Bearer garbage", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"expired", "/me", "Bearer " + stale, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"student on advisor route", "/advisors", "Bearer " + student, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"advisor", "/advisors", "Bearer " + advisor, http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeError(t, w).Code)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	r := gin.New()
	r.POST("/check", ValidateRequest[dto.CheckRequest](), func(c *gin.Context) {
		body, ok := ValidatedBody[dto.CheckRequest](c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"areas": len(body.Areas)})
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"courses": [], "areas": [{"name": "Statistics", "type": "concentration", "revision": "2014-15"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(`{"courses": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)

	w = post(`{"areas": [{"name": "Statistics", "type": "minor"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"areas": [{"name": "Statistics", "type": "concentration", "revision": "fall"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(`{"areas": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, decodeError(t, w).Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/missing", line["path"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
}
