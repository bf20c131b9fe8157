package syncer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestResult_Fail(t *testing.T) {
	res := newResult()
	assert.Equal(t, StatusSuccess, res.Status)
	assert.NoError(t, res.Err())

	res.fail("first")
	res.fail("second")

	assert.Equal(t, StatusPartial, res.Status)
	assert.EqualError(t, res.Err(), "first\nsecond")
}

func TestResult_FailKeepsFailedStatus(t *testing.T) {
	res := Result{Status: StatusFailed}
	res.fail("late")

	assert.Equal(t, StatusFailed, res.Status)
}

func TestResult_JSON(t *testing.T) {
	res := newResult()

	data, err := json.Marshal(res)
	require.NoError(t, err)

	assert.Equal(t, "success", gjson.GetBytes(data, "status").String())
	assert.True(t, gjson.GetBytes(data, "updated_pages").IsArray())
	assert.False(t, gjson.GetBytes(data, "errors").Exists())

	res.UpdatedPages = append(res.UpdatedPages, "p1")
	res.fail("failed to process a.md: boom")

	data, err = json.Marshal(res)
	require.NoError(t, err)

	assert.Equal(t, "partial", gjson.GetBytes(data, "status").String())
	assert.Equal(t, "p1", gjson.GetBytes(data, "updated_pages.0").String())
	assert.Equal(t, "failed to process a.md: boom", gjson.GetBytes(data, "errors.0").String())
}
