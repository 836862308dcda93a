package cronx_test

import (
	"testing"
	"time"

	"github.com/darkkaiser/market-watcher/pkg/cronx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStandardParser_SixFieldFormat verifies that the parser accepts the
// second-precision 6-field format and rejects the standard 5-field format.
func TestStandardParser_SixFieldFormat(t *testing.T) {
	parser := cronx.StandardParser()

	_, err := parser.Parse("0 */5 * * * *")
	assert.NoError(t, err, "6필드(초 포함) 형식은 허용되어야 합니다")

	_, err = parser.Parse("*/5 * * * *")
	assert.Error(t, err, "5필드 형식은 허용되지 않아야 합니다")
}

// TestStandardParser_Descriptors verifies support for descriptor expressions,
// which the polling scheduler relies on (@every <duration>).
func TestStandardParser_Descriptors(t *testing.T) {
	parser := cronx.StandardParser()

	schedule, err := parser.Parse("@every 30m")
	require.NoError(t, err)

	now := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(30*time.Minute), schedule.Next(now))

	_, err = parser.Parse("@daily")
	assert.NoError(t, err)
}

// TestStandardParser_InvalidExpressions verifies rejection of malformed specs.
func TestStandardParser_InvalidExpressions(t *testing.T) {
	parser := cronx.StandardParser()

	for _, spec := range []string{"", "not-a-cron", "@every", "99 * * * * *"} {
		_, err := parser.Parse(spec)
		assert.Error(t, err, "spec: %q", spec)
	}
}
