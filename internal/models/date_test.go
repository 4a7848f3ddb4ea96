package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateDecodesWireFormat(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01"`), &d))
	assert.Equal(t, "2024-03-01", d.String())
}

func TestDateRejectsUnparseableValue(t *testing.T) {
	// A date the API cannot have produced is a hard failure, not a zero value.
	for _, raw := range []string{`"03/01/2024"`, `"2024-3-1"`, `1709251200`} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(raw), &d), "input %s", raw)
	}
}
