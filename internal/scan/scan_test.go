package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probelab/codescope/internal/lang"
	"github.com/probelab/codescope/internal/model"
)

func scanSource(t *testing.T, source string) []model.Finding {
	t.Helper()
	return File(context.Background(), lang.NewParser(), "test.py", []byte(source))
}

func TestCleanFileNoFindings(t *testing.T) {
	t.Parallel()

	findings := scanSource(t, "def add(a, b):\n    return a + b\n")
	assert.Empty(t, findings)
}

func TestBareExceptLineThree(t *testing.T) {
	t.Parallel()

	source := "try:\n    pass\nexcept:\n    pass\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 1)
	assert.Equal(t, "Bare except clause", findings[0].Kind)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, "Use specific exceptions", findings[0].Message)
	assert.Equal(t, "test.py", findings[0].File)
}

func TestBroadExceptionHandling(t *testing.T) {
	t.Parallel()

	source := "try:\n    pass\nexcept Exception:\n    pass\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 1)
	assert.Equal(t, "Too broad exception handling", findings[0].Kind)
	assert.Equal(t, 3, findings[0].Line)
}

func TestDictGetWithoutDefault(t *testing.T) {
	t.Parallel()

	findings := scanSource(t, "value = config.get('key')\n")
	require.Len(t, findings, 1)
	assert.Equal(t, "dict.get() without default", findings[0].Kind)
	assert.Equal(t, 1, findings[0].Line)

	// A default value means the accessor rule stays quiet.
	findings = scanSource(t, "value = config.get('key', None)\n")
	assert.Empty(t, findings)
}

func TestDebugPrint(t *testing.T) {
	t.Parallel()

	findings := scanSource(t, "x = 1\nprint(x)\n")
	require.Len(t, findings, 1)
	assert.Equal(t, "Debug print statement", findings[0].Kind)
	assert.Equal(t, 2, findings[0].Line)
}

func TestInefficientListBuilding(t *testing.T) {
	t.Parallel()

	source := "result = []\nfor item in items:  result.append(item)\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 1)
	assert.Equal(t, "Inefficient list building", findings[0].Kind)
	assert.Equal(t, 1, findings[0].Line)
	assert.Equal(t, "Use list comprehension", findings[0].Message)
}

func TestComparisonToLiterals(t *testing.T) {
	t.Parallel()

	source := "if flag == True:\n    pass\nif flag == False:\n    pass\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 2)
	assert.Equal(t, "Unnecessary comparison to True", findings[0].Kind)
	assert.Equal(t, 1, findings[0].Line)
	assert.Equal(t, "Unnecessary comparison to False", findings[1].Kind)
	assert.Equal(t, 3, findings[1].Line)
}

func TestRuleOrderBeatsLineOrder(t *testing.T) {
	t.Parallel()

	// The print on line 1 comes before the bare except on line 4 in the
	// text, but the bare-except rule sits earlier in the table.
	source := "print('start')\ntry:\n    pass\nexcept:\n    pass\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 2)
	assert.Equal(t, "Bare except clause", findings[0].Kind)
	assert.Equal(t, 4, findings[0].Line)
	assert.Equal(t, "Debug print statement", findings[1].Kind)
	assert.Equal(t, 1, findings[1].Line)
}

func TestMatchOrderWithinRule(t *testing.T) {
	t.Parallel()

	source := "print('a')\nx = 1\nprint('b')\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 2)
	assert.Equal(t, 1, findings[0].Line)
	assert.Equal(t, 3, findings[1].Line)
}

func TestSyntaxErrorGate(t *testing.T) {
	t.Parallel()

	// The broken file also contains heuristic matches; none may be
	// reported once the parse fails.
	source := "print('debug')\ntry:\n    pass\nexcept:\n    pass\ndef broken(:\n"
	findings := scanSource(t, source)

	require.Len(t, findings, 1)
	assert.Equal(t, "Syntax Error", findings[0].Kind)
	assert.NotEmpty(t, findings[0].Message)
	assert.GreaterOrEqual(t, findings[0].Line, 1)
}
