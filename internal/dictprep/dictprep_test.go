package dictprep

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSizes(t *testing.T) {
	parts := Split([]int{1, 2, 3, 4, 5, 6, 7}, 3)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}, parts)

	parts = Split([]int{1, 2}, 4)
	require.Len(t, parts, 4)
	assert.Equal(t, []int{1}, parts[0])
	assert.Equal(t, []int{2}, parts[1])
	assert.Empty(t, parts[2])
	assert.Empty(t, parts[3])

	assert.Nil(t, Split([]int{1}, 0))
}

func TestSplitPreservesEveryRecordInOrder(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("concatenated parts equal the input", prop.ForAll(
		func(records []int, parts int) bool {
			var joined []int
			for _, p := range Split(records, parts) {
				joined = append(joined, p...)
			}
			if len(joined) != len(records) {
				return false
			}
			for i := range records {
				if joined[i] != records[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int()),
		gen.IntRange(1, 20),
	))
	properties.TestingRun(t)
}

func writeRecords(t *testing.T, dir string, n int) string {
	t.Helper()
	recs := make([]map[string]any, n)
	for i := range recs {
		recs[i] = map[string]any{"idiom": fmt.Sprintf("成语%d", i), "definition": "释义"}
	}
	body, err := json.Marshal(recs)
	require.NoError(t, err)
	path := filepath.Join(dir, "idioms.json")
	require.NoError(t, os.WriteFile(path, body, 0o644))
	return path
}

func TestSplitFileWritesNumberedPartitions(t *testing.T) {
	dir := t.TempDir()
	in := writeRecords(t, dir, 25)
	out := filepath.Join(dir, "dictionaries")

	parts, err := SplitFile(in, out, "", 10)
	require.NoError(t, err)
	require.Len(t, parts, 10)

	total := 0
	for i, p := range parts {
		assert.Equal(t, filepath.Join(out, fmt.Sprintf(DefaultPattern, i+1)), p.Path)
		body, err := os.ReadFile(p.Path)
		require.NoError(t, err)
		var recs []map[string]any
		require.NoError(t, json.Unmarshal(body, &recs))
		assert.Len(t, recs, p.Records)
		total += p.Records
	}
	assert.Equal(t, 25, total)
	assert.Equal(t, 3, parts[0].Records)
	assert.Equal(t, 0, parts[9].Records, "ceil(25/10)=3 leaves the last part empty")

	body, err := os.ReadFile(parts[9].Path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestSplitFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := SplitFile(filepath.Join(dir, "missing.json"), dir, "", 2)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"idiom":"x"}`), 0o644))
	_, err = SplitFile(bad, dir, "", 2)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))

	_, err = SplitFile(bad, dir, "", 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestFixFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "idioms.json")
	require.NoError(t, os.WriteFile(in, []byte(`[
		{"idiom":"画蛇添足","definition":"比喻做了多余的事","usage":"作宾语。",
		 "source":{"text":"蛇固无足","book":"《战国策》"},"story":["楚国有个贵族", 3, "他说：“我能画脚！”"],
		 "similar":["多此一举"]}
	]`), 0o644))

	out, n, err := FixFile(in, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "idioms_fixed.json"), out)
	assert.Equal(t, 1, n)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `\u`, "non-ASCII text is written as is")
	assert.JSONEq(t, `[{
		"idiom":"画蛇添足","definition":"比喻做了多余的事。","usage":"作宾语。",
		"source":{"text":"蛇固无足。","book":"《战国策》"},"story":["楚国有个贵族。", 3, "他说：“我能画脚！”"],
		"similar":["多此一举"]
	}]`, string(body))
}

func TestFixFileKeepsFieldOrder(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "idioms.json")
	require.NoError(t, os.WriteFile(in, []byte(`[
		{"pinyin":"yī mǎ dāng xiān","idiom":"一马当先","source":{"book":"《宋太祖》","text":"出自元曲"},"definition":"比喻领先","usage":null},
		"not a record"
	]`), 0o644))

	out, n, err := FixFile(in, filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(body)
	order := []string{`"pinyin"`, `"idiom"`, `"source"`, `"book"`, `"text"`, `"definition"`, `"usage"`}
	for i := 1; i < len(order); i++ {
		assert.Less(t, strings.Index(text, order[i-1]), strings.Index(text, order[i]), order[i])
	}
	assert.JSONEq(t, `[
		{"pinyin":"yī mǎ dāng xiān","idiom":"一马当先","source":{"book":"《宋太祖》","text":"出自元曲。"},"definition":"比喻领先。","usage":null},
		"not a record"
	]`, text)
}

func TestFixRecordLeavesOtherFields(t *testing.T) {
	got := fixRecord(json.RawMessage(`{"idiom":"一马当先","example":"not an object","story":["第一段",3,"第二段。"],"similar":["<a&b>"]}`))
	assert.Equal(t, `{"idiom":"一马当先","example":"not an object","story":["第一段。",3,"第二段。"],"similar":["<a&b>"]}`, string(got))

	raw := json.RawMessage(`[1,2]`)
	assert.Equal(t, raw, fixRecord(raw))
}

func TestFixedName(t *testing.T) {
	assert.Equal(t, "dict/idioms_fixed.json", FixedName("dict/idioms.json"))
	assert.Equal(t, "idioms_fixed", FixedName("idioms"))
}
