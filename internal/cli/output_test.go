package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutput_Text(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewOutput("text", &out, &errOut)

	o.Print(CategoriesResult{Categories: []string{"Standard", "1980"}})
	o.Print(VersionResult{Version: "1.4.23"})
	o.PrintError(errors.New("room not found"))

	assert.Equal(t, "Standard\n1980\nServer version: 1.4.23\n", out.String())
	assert.Equal(t, "Error: room not found\n", errOut.String())
}

func TestOutput_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	o := NewOutput("json", &out, &errOut)

	o.Print(DeviceResult{DeviceID: "abc"})
	o.PrintError(errors.New("boom"))

	assert.JSONEq(t, `{"device_id":"abc"}`, out.String())
	require.NotEmpty(t, errOut.String())
	assert.JSONEq(t, `{"error":{"message":"boom"}}`, errOut.String())
}
