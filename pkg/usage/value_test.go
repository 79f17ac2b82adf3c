package usage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueJSONRoundTrip(t *testing.T) {
	report := Report{
		"prompt_tokens":     Number(12),
		"completion_tokens": Number(34),
		"completion_details": Nested(map[string]Value{
			"reasoning_tokens": Number(8),
		}),
	}

	first, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(decoded)
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(second))

	require.True(t, decoded["completion_details"].IsMap())
	require.Equal(t, 8.0, decoded["completion_details"].Map["reasoning_tokens"].Num)
}

func TestValueDecodeRejectsNonNumericLeaf(t *testing.T) {
	var report Report
	err := json.Unmarshal([]byte(`{"model": "gpt-4"}`), &report)
	require.Error(t, err)
}

func TestFromMap(t *testing.T) {
	report, err := FromMap(map[string]interface{}{
		"prompt_tokens": 12,
		"details": map[string]interface{}{
			"cached_tokens": 3.0,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 12.0, report["prompt_tokens"].Num)
	require.Equal(t, 3.0, report["details"].Map["cached_tokens"].Num)

	_, err = FromMap(map[string]interface{}{"model": "gpt-4"})
	require.Error(t, err)
}

func TestMergeAddsLeavesRecursively(t *testing.T) {
	totals := Report{
		"prompt_tokens": Number(10),
		"details":       Nested(map[string]Value{"cached_tokens": Number(1)}),
	}
	Merge(totals, Report{
		"prompt_tokens": Number(5),
		"total_tokens":  Number(20),
		"details":       Nested(map[string]Value{"cached_tokens": Number(2), "audio_tokens": Number(4)}),
	})

	require.Equal(t, 15.0, totals["prompt_tokens"].Num)
	require.Equal(t, 20.0, totals["total_tokens"].Num)
	require.Equal(t, 3.0, totals["details"].Map["cached_tokens"].Num)
	require.Equal(t, 4.0, totals["details"].Map["audio_tokens"].Num)
}
