package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/models"
)

func TestPlanIDJSON(t *testing.T) {
	id := models.NewPlanID()

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var decoded models.PlanID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestParseIDs(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := models.NewStepID()
		parsed, err := models.ParseStepID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := models.ParseMilestoneID("not-a-uuid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid milestone ID")
	})
}

func TestIDCBORRecordID(t *testing.T) {
	id := models.NewResourceID()

	data, err := id.MarshalCBOR()
	require.NoError(t, err)

	var decoded models.ResourceID
	require.NoError(t, decoded.UnmarshalCBOR(data))
	assert.Equal(t, id, decoded)

	rid := id.RecordID()
	assert.Equal(t, models.TableResources, rid.Table)
	assert.Equal(t, id.String(), rid.ID)
}

func TestIDCBORWrongTable(t *testing.T) {
	data, err := models.NewPlanID().MarshalCBOR()
	require.NoError(t, err)

	var step models.StepID
	err = step.UnmarshalCBOR(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected table steps")
}

func TestIDValueScan(t *testing.T) {
	var zero models.UserID
	v, err := zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	id := models.NewUserID()
	v, err = id.Value()
	require.NoError(t, err)
	assert.Equal(t, id.String(), v)

	var scanned models.UserID
	require.NoError(t, scanned.Scan([]byte(id.String())))
	assert.Equal(t, id, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(42))
}
