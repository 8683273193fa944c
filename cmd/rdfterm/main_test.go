package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rdfterm version "+Version+"\n", out)
}

func TestLiteralCommand(t *testing.T) {
	out, err := run(t, "literal", "+042", "--datatype", datatypes.XSDInteger)
	require.NoError(t, err)
	assert.Contains(t, out, `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`)
	assert.Regexp(t, `inlined\s+true`, out)
	assert.Regexp(t, fmt.Sprintf(`tag\s+%d\n`, datatypes.TagInteger), out)

	out, err = run(t, "literal", "bonjour", "--lang", "FR")
	require.NoError(t, err)
	assert.Contains(t, out, `"bonjour"@fr`)

	_, err = run(t, "literal", "abc", "-d", datatypes.XSDInteger)
	assert.ErrorIs(t, err, datatypes.ErrInvalidLiteral)
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, "compare", "1", "0.5", "--datatype-b", datatypes.XSDDecimal)
	require.NoError(t, err)
	assert.Contains(t, out, " greater ")

	out, err = run(t, "compare", "1", "1", "--datatype-b", datatypes.XSDString)
	require.NoError(t, err)
	assert.Contains(t, out, " incomparable ")
}

func TestEvalCommand(t *testing.T) {
	out, err := run(t, "eval", "1", "/", "4")
	require.NoError(t, err)
	assert.Regexp(t, `canonical\s+0\.25\n`, out)

	_, err = run(t, "eval", "1", "%", "4")
	assert.ErrorContains(t, err, "unknown operator")

	_, err = run(t, "eval", "1", "/", "0")
	assert.ErrorIs(t, err, datatypes.ErrDivideByZero)
}

func TestDatatypesCommand(t *testing.T) {
	out, err := run(t, "datatypes")
	require.NoError(t, err)
	assert.Contains(t, out, datatypes.XSDDecimal)
	assert.Contains(t, out, datatypes.OWLRational)
	assert.Regexp(t, `integer\s+ordered,numeric,inline,specialized\s+http://www.w3.org/2001/XMLSchema#decimal`, out)
}

func TestDemoCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rdfterm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  enabled: true\n  namespace: demo\n"), 0o644))

	out, err := run(t, "demo", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "<http://example.org/alice>")
	assert.Contains(t, out, `"Alice"@en`)
	assert.Regexp(t, `iri\s+\d+`, out)
	assert.Contains(t, out, "demo_store_entries{")
	assert.Contains(t, out, "demo_store_inlined_literals_total{")
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, "version", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid configuration")
}
