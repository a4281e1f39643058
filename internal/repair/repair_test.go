package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CleanJSON(t *testing.T) {
	outcome := Parse(`{"key": "value"}`)
	require.Equal(t, StatusParsed, outcome.Status)
	assert.Equal(t, map[string]any{"key": "value"}, outcome.Object())
}

func TestParse_MarkdownFencedJSON(t *testing.T) {
	outcome := Parse("```json\n{\"key\": \"value\"}\n```")
	require.Equal(t, StatusParsed, outcome.Status)
	assert.Equal(t, map[string]any{"key": "value"}, outcome.Object())
}

func TestParse_GenericFence(t *testing.T) {
	outcome := Parse("```\n{\"key\": \"value\"}\n```")
	require.Equal(t, StatusParsed, outcome.Status)
	assert.Equal(t, map[string]any{"key": "value"}, outcome.Object())
}

func TestParse_ValidInputIsPassThrough(t *testing.T) {
	// Repair is a no-op pass-through for any well-formed JSON input.
	inputs := []string{
		`{"a": 1, "b": [1, 2, 3]}`,
		`["x", "y"]`,
		`{"nested": {"deep": {"list": [{"k": "v"}]}}}`,
		`"just a string"`,
		`42`,
	}
	for _, input := range inputs {
		outcome := Parse(input)
		assert.Equal(t, StatusParsed, outcome.Status, "input: %s", input)
	}
}

func TestParse_UnterminatedString(t *testing.T) {
	outcome := Parse(`{"email": "user@example.com`)
	require.Equal(t, StatusRepaired, outcome.Status)
	assert.Equal(t, map[string]any{"email": "user@example.com"}, outcome.Object())
}

func TestParse_MissingClosingBraces(t *testing.T) {
	outcome := Parse(`{"a": {"b": 1`)
	require.Equal(t, StatusRepaired, outcome.Status)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1.0}}, outcome.Object())
}

func TestParse_TruncatedInsideArrayStaysFailed(t *testing.T) {
	// Closers are appended braces-then-brackets, so a response cut inside an
	// array balances into invalid nesting and stays unrecoverable here; the
	// caller's regeneration path covers it.
	outcome := Parse(`{"skills": ["Go", "Python"`)
	assert.Equal(t, StatusFailed, outcome.Status)
}

func TestParse_TrailingCommaBeforeCloser(t *testing.T) {
	outcome := Parse(`{"a": 1,}`)
	require.Equal(t, StatusRepaired, outcome.Status)
	assert.Equal(t, map[string]any{"a": 1.0}, outcome.Object())
}

func TestParse_TrailingCommaInArray(t *testing.T) {
	outcome := Parse(`{"skills": ["Go", "Python",]}`)
	require.Equal(t, StatusRepaired, outcome.Status)
	assert.Equal(t, map[string]any{"skills": []any{"Go", "Python"}}, outcome.Object())
}

func TestParse_TruncatedAfterComma(t *testing.T) {
	outcome := Parse(`{"a": "x",`)
	require.Equal(t, StatusRepaired, outcome.Status)
	assert.Equal(t, map[string]any{"a": "x"}, outcome.Object())
}

func TestParse_Unrecoverable(t *testing.T) {
	outcome := Parse("not json at all")
	require.Equal(t, StatusFailed, outcome.Status)
	assert.True(t, outcome.Failed())
	assert.Error(t, outcome.Err)
	assert.Nil(t, outcome.Object())
}

func TestParse_EmptyInput(t *testing.T) {
	outcome := Parse("")
	assert.Equal(t, StatusFailed, outcome.Status)
}

func TestCleanFences(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, CleanFences("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, CleanFences("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, CleanFences("  {\"a\": 1}  "))
	assert.Equal(t, `{"a": 1}`, CleanFences(`{"a": 1}`))
}

func TestRepairText_EscapedQuotesNotCounted(t *testing.T) {
	// The escaped quote inside the value must not trip the odd-quote
	// heuristic: this input has balanced unescaped quotes.
	input := `{"a": "say \"hi\""}`
	assert.Equal(t, input, RepairText(input))
}

func TestRepairText_EscapedBackslashBeforeQuote(t *testing.T) {
	// `\\"` is an escaped backslash followed by a real (unescaped) quote.
	input := `{"path": "C:\\"`
	repaired := RepairText(input)
	outcome := Parse(input)
	require.Equal(t, StatusRepaired, outcome.Status)
	assert.Contains(t, repaired, "}")
}

func TestCountUnescapedQuotes(t *testing.T) {
	assert.Equal(t, 2, countUnescapedQuotes(`"abc"`))
	assert.Equal(t, 2, countUnescapedQuotes(`"a\"b"`))
	assert.Equal(t, 3, countUnescapedQuotes(`"a" "b`))
	assert.Equal(t, 0, countUnescapedQuotes(`no quotes`))
}
