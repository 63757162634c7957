package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"fintrack/internal/database"
	"fintrack/internal/models"
)

func testContext(query string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/analysis/overall"+query, nil)
	return c, w
}

func TestParseDateRange(t *testing.T) {
	c, _ := testContext("?startDate=2024-03-01&endDate=2024-03-31")
	rng, err := parseDateRange(c)
	require.NoError(t, err)
	require.False(t, rng.IsZero())
	from, to := rng.Bounds()
	require.Equal(t, "2024-03-01", from.Format(dateLayout))
	require.Equal(t, "2024-04-01", to.Format(dateLayout))
}

func TestParseDateRangeOptional(t *testing.T) {
	c, _ := testContext("")
	rng, err := parseDateRange(c)
	require.NoError(t, err)
	require.True(t, rng.IsZero())
}

func TestParseDateRangeRejectsPartial(t *testing.T) {
	c, _ := testContext("?startDate=2024-03-01")
	_, err := parseDateRange(c)
	require.Error(t, err)
}

func TestParseDateRangeRejectsInverted(t *testing.T) {
	c, _ := testContext("?startDate=2024-03-31&endDate=2024-03-01")
	_, err := parseDateRange(c)
	require.Error(t, err)
}

func TestParseDateRangeRejectsBadFormat(t *testing.T) {
	c, _ := testContext("?startDate=03/01/2024&endDate=2024-03-31")
	_, err := parseDateRange(c)
	require.Error(t, err)
}

func TestFailMapsErrorTaxonomy(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	h := &Handler{log: log}

	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("lookup: %w", database.ErrNotFound), http.StatusNotFound},
		{database.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w %q", models.ErrUnknownSector, "crypto"), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, w := testContext("")
		h.fail(c, tc.err)
		require.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}

	// internal failures must not leak the raw error text
	c, w := testContext("")
	h.fail(c, errors.New("pq: password authentication failed"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "password")
}
