package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestParseRange verifies the "LOW-HIGH" and single-port text forms,
// including whitespace tolerance and rejection of malformed input.
func TestParseRange(t *testing.T) {
	tests := []struct {
		input    string
		expected Range
		hasError bool
	}{
		{"2000-3000", Range{2000, 3000}, false},
		{" 2000 - 3000 ", Range{2000, 3000}, false},
		{"8080", Range{8080, 8080}, false},
		{"0-65535", Range{0, 65535}, false},
		{"3000-2000", Range{}, true}, // descending
		{"1-70000", Range{}, true},   // out of domain
		{"abc", Range{}, true},
		{"10-x", Range{}, true},
		{"", Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseRange(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}

// TestNewRange_SwapsBounds verifies that NewRange normalizes reversed bounds.
func TestNewRange_SwapsBounds(t *testing.T) {
	assert.Equal(t, Range{Low: 10, High: 20}, NewRange(20, 10))
	assert.Equal(t, Range{Low: 5, High: 5}, NewRange(5, 5))
}

// TestRange_LenAndContains checks the width definition used by good-range
// filtering (High - Low) and inclusive membership.
func TestRange_LenAndContains(t *testing.T) {
	r := Range{Low: 100, High: 200}
	assert.Equal(t, 100, r.Len())
	assert.True(t, r.Contains(100))
	assert.True(t, r.Contains(200))
	assert.False(t, r.Contains(99))
	assert.False(t, r.Contains(201))
	assert.Equal(t, 0, Range{Low: 7, High: 7}.Len())
}

// TestRange_TextEncoding verifies that ranges decode from plain strings in
// both YAML and JSON documents, which is how configuration files list
// excluded ranges.
func TestRange_TextEncoding(t *testing.T) {
	var fromYAML struct {
		Exclude []Range `yaml:"exclude"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("exclude:\n  - 4000-4100\n  - \"5000\"\n"), &fromYAML))
	assert.Equal(t, []Range{{4000, 4100}, {5000, 5000}}, fromYAML.Exclude)

	var fromJSON struct {
		Exclude []Range `json:"exclude"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"exclude":["4000-4100"]}`), &fromJSON))
	assert.Equal(t, []Range{{4000, 4100}}, fromJSON.Exclude)

	data, err := json.Marshal([]Range{{1, 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `["1-2"]`, string(data))

	err = json.Unmarshal([]byte(`["9-1"]`), &fromJSON.Exclude)
	assert.Error(t, err)
}

// TestValidateAppName checks the characters reserved by the store format.
func TestValidateAppName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"foo", true},
		{"my-service_2", true},
		{"with space", true},
		{"", false},
		{"   ", false},
		{"a=b", false},
		{"a:b", false},
		{"line\nbreak", false},
		{"#comment", false},
		{";comment", false},
		{"[section]", false},
		{"\"quoted\"", false},
		{" padded", false},
		{"padded\t", false},
		{"-", false},
		{"a#b", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.name), func(t *testing.T) {
			err := ValidateAppName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

// TestValidatePort checks the port domain bounds.
func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort(0))
	assert.NoError(t, ValidatePort(65535))
	assert.Error(t, ValidatePort(-1))
	assert.Error(t, ValidatePort(65536))
}

// TestReservation_String checks the "name: port" list line format.
func TestReservation_String(t *testing.T) {
	assert.Equal(t, "foo: 8123", Reservation{App: "foo", Port: 8123}.String())
}

// TestCLIError verifies the error message format and unwrap behavior.
func TestCLIError(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapCLIError(ExitGeneralError, "failed to save store", inner)
	assert.Equal(t, "failed to save store: disk full", err.Error())
	assert.ErrorIs(t, err, inner)

	plain := NewCLIError(ExitConfigError, "bad config")
	assert.Equal(t, "bad config", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

// TestExitCodeFor verifies the mapping from wrapped sentinels to exit codes.
func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"invalid name", fmt.Errorf("%w: %q", ErrInvalidName, "a=b"), ExitInvalidName},
		{"conflict", fmt.Errorf("%w: foo", ErrBindingConflict), ExitBindingConflict},
		{"owned", fmt.Errorf("%w: 8000", ErrPortOwnedByOther), ExitBindingConflict},
		{"exhausted", fmt.Errorf("%w after 100 probes", ErrSelectionExhausted), ExitPortSelectionFailed},
		{"cli error", WrapCLIError(ExitDockerError, "docker", ErrInvalidName), ExitDockerError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeFor(tt.err))
		})
	}
}
