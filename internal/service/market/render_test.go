package market_test

import (
	"testing"

	"github.com/darkkaiser/market-watcher/internal/service/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(name, version string) market.Entry {
	return market.Entry{Name: name, Version: version}
}

// TestDiffChangeLines_MixedChanges verifies the canonical mixed scenario:
// one removal, one creation and one version change rendered in sorted order.
func TestDiffChangeLines_MixedChanges(t *testing.T) {
	prev := market.Snapshot{
		"a": entry("a", "1.0.0"),
		"b": entry("b", "2.0.0"),
	}
	cur := market.Snapshot{
		"b": entry("b", "2.1.0"),
		"c": entry("c", "1.0.0"),
	}

	lines := market.DiffChangeLines(prev, cur, market.RenderPolicy{ShowDeletions: true})

	require.Equal(t, []string{
		"删除：a",
		"新增：c",
		"更新：b (2.0.0 → 2.1.0)",
	}, lines)
}

// TestDiffChangeLines_NoChanges verifies that identical snapshots produce no lines.
func TestDiffChangeLines_NoChanges(t *testing.T) {
	snapshot := market.Snapshot{
		"a": entry("a", "1.0.0"),
		"b": entry("b", "2.0.0"),
	}

	lines := market.DiffChangeLines(snapshot, snapshot, market.RenderPolicy{ShowDeletions: true})

	assert.Empty(t, lines)
}

// TestDiffChangeLines_DeletionsHidden verifies that removals are silently dropped
// when the policy does not include them.
func TestDiffChangeLines_DeletionsHidden(t *testing.T) {
	prev := market.Snapshot{
		"a": entry("a", "1.0.0"),
		"b": entry("b", "2.0.0"),
	}
	cur := market.Snapshot{
		"b": entry("b", "2.0.0"),
	}

	lines := market.DiffChangeLines(prev, cur, market.RenderPolicy{ShowDeletions: false})

	assert.Empty(t, lines)
}

// TestDiffChangeLines_CreatedWithPublisherAndDescription verifies the optional
// publisher suffix and the description continuation line for new plugins.
func TestDiffChangeLines_CreatedWithPublisherAndDescription(t *testing.T) {
	cur := market.Snapshot{
		"forward": {
			Name:        "forward",
			Version:     "1.0.0",
			Publisher:   "shigma",
			Description: market.NewLocalizedDescription(map[string]string{"zh": "消息转发", "en": "message forwarding"}),
		},
	}

	tests := []struct {
		name     string
		policy   market.RenderPolicy
		expected string
	}{
		{
			name:     "게시자와 설명 모두 표시",
			policy:   market.RenderPolicy{ShowPublisher: true, ShowDescription: true, Locale: "zh-CN"},
			expected: "新增：forward (@shigma)\n消息转发",
		},
		{
			name:     "게시자만 표시",
			policy:   market.RenderPolicy{ShowPublisher: true},
			expected: "新增：forward (@shigma)",
		},
		{
			name:     "이름만 표시",
			policy:   market.RenderPolicy{},
			expected: "新增：forward",
		},
		{
			name:     "로케일 불일치 시 영어 설명으로 대체",
			policy:   market.RenderPolicy{ShowDescription: true, Locale: "ko-KR"},
			expected: "新增：forward\nmessage forwarding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := market.DiffChangeLines(market.Snapshot{}, cur, tt.policy)

			require.Len(t, lines, 1)
			assert.Equal(t, tt.expected, lines[0])
		})
	}
}

// TestDiffChangeLines_CreatedWithoutPublisher verifies that an empty publisher
// never renders a dangling "(@)" suffix.
func TestDiffChangeLines_CreatedWithoutPublisher(t *testing.T) {
	cur := market.Snapshot{
		"echo": entry("echo", "1.0.0"),
	}

	lines := market.DiffChangeLines(market.Snapshot{}, cur, market.RenderPolicy{ShowPublisher: true})

	require.Equal(t, []string{"新增：echo"}, lines)
}

// TestComposeDigest verifies the digest header and the line joining format.
func TestComposeDigest(t *testing.T) {
	digest := market.ComposeDigest([]string{"新增：c", "更新：b (2.0.0 → 2.1.0)"})

	assert.Equal(t, "[插件市场更新]\n新增：c\n更新：b (2.0.0 → 2.1.0)", digest)
}

// TestComposeDigest_EmptyLines verifies that an empty change list yields only the header.
func TestComposeDigest_EmptyLines(t *testing.T) {
	assert.Equal(t, "[插件市场更新]", market.ComposeDigest(nil))
}
