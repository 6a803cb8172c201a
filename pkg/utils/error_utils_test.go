package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, NewAPIError(http.StatusConflict, ErrCodeConflict, "Boat is already booked", "overlaps booking 9"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())

	var body struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeConflict, body.Error.Code)
	assert.Equal(t, "Boat is already booked", body.Error.Message)
	assert.Equal(t, "overlaps booking 9", body.Error.Details)
}

func TestStringChecks(t *testing.T) {
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsValidEmail("Skipper@Example.com"))
	assert.False(t, IsValidEmail("skipper@localhost"))
	assert.True(t, IsValidPasswordLength("12345678", 8))
	assert.Equal(t, "ann@example.com", NormalizeEmail("  Ann@Example.COM "))
	assert.Nil(t, NewNullString("  "))
	assert.Equal(t, "x", *NewNullString(" x "))
}
