package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Total(t *testing.T) {
	cart := &Cart{Lines: []CartLine{
		{ProductID: "lighting", Title: "Lighting Control System", Price: 1050, Qty: 2},
		{ProductID: "motion", Title: "Motion Sensor Switch", Price: 450, Qty: 1},
	}}

	assert.Equal(t, int64(2550), cart.Total())
}

func TestCart_Total_Empty(t *testing.T) {
	cart := &Cart{}
	assert.Equal(t, int64(0), cart.Total())
}

func TestCart_ItemCount(t *testing.T) {
	cart := &Cart{Lines: []CartLine{
		{ProductID: "a", Qty: 2},
		{ProductID: "b", Qty: 3},
	}}

	assert.Equal(t, 5, cart.ItemCount())
	assert.Equal(t, 0, (&Cart{}).ItemCount())
}

func TestCart_FindLineIndex(t *testing.T) {
	cart := &Cart{Lines: []CartLine{
		{ProductID: "a"},
		{ProductID: "b"},
	}}

	assert.Equal(t, 0, cart.FindLineIndex("a"))
	assert.Equal(t, 1, cart.FindLineIndex("b"))
	assert.Equal(t, -1, cart.FindLineIndex("missing"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "25.50", FormatAmount(2550))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "450.00", FormatAmount(45000))
	assert.Equal(t, "-3.25", FormatAmount(-325))
}

// The persisted cart is the bare array of lines with short keys; those keys
// must survive a marshal/unmarshal round trip unchanged.
func TestCartLine_JSONKeys(t *testing.T) {
	line := CartLine{ProductID: "motion", Title: "Motion Sensor Switch", Price: 12500, Qty: 2}

	data, err := json.Marshal(line)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"motion","title":"Motion Sensor Switch","price":12500,"qty":2}`, string(data))

	var decoded CartLine
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, line, decoded)
}
