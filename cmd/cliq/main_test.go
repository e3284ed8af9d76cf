package main

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titivuk/cliq/evaluator"
	"github.com/titivuk/cliq/parser"
)

const sample = `PROGRAM Sample;
VAR
    a : INTEGER;
    r : REAL;
    ok : BOOL;
WAYPOINT
    wp := 10, 20;
BEGIN
    a := 7 DIV 2;
    r := 4;
    ok := a > 2;
    HOME;
    MOVETO wp
END.
`

func writeSource(t *testing.T, src string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "prog.cliq")
	require.NoError(t, os.WriteFile(file, []byte(src), 0o644))
	return file
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"cliq", "--verbosity", "error"}, args...))
	return buf.String(), err
}

func TestRun(t *testing.T) {
	file := writeSource(t, sample)
	want := "G28 X,Z\n" +
		"G91\n" +
		"G1 X10 F2600\n" +
		"a = 3\n" +
		"ok = TRUE\n" +
		"r = 4.0\n" +
		"wp = (10, 20)\n"

	out, err := runApp(t, "--no-serial", "run", file)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	// run is the default command
	out, err = runApp(t, "--no-serial", file)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestRunWithoutPort(t *testing.T) {
	file := writeSource(t, sample)

	out, err := runApp(t, "--device", filepath.Join(t.TempDir(), "ttyNone"), file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "G28 X,Z\n"), out)
}

func TestRunTable(t *testing.T) {
	file := writeSource(t, sample)

	out, err := runApp(t, "--no-serial", "--table", file)
	require.NoError(t, err)
	assert.Contains(t, out, "INTEGER")
	assert.Contains(t, out, "WAYPOINT")
	assert.Contains(t, out, "4.0")
	assert.NotContains(t, out, "a = 3")
}

func TestRunErrors(t *testing.T) {
	file := writeSource(t, strings.Replace(sample, "a := 7 DIV 2", "b := 7 DIV 2", 1))

	out, err := runApp(t, "--no-serial", file)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), file+": "), err.Error())

	var rerr *evaluator.Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, evaluator.UndeclaredVariable, rerr.Kind)
	assert.Empty(t, out)

	_, err = runApp(t, "--no-serial", writeSource(t, "PROGRAM P; BEGIN END"))
	var serr *parser.SyntaxError
	assert.True(t, errors.As(err, &serr))

	_, err = runApp(t, "--no-serial", filepath.Join(t.TempDir(), "missing.cliq"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestTokens(t *testing.T) {
	file := writeSource(t, "PROGRAM P;\nBEGIN x := 1.5 END.")

	out, err := runApp(t, "tokens", file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "1:1\tPROGRAM\t\"PROGRAM\"", lines[0])
	assert.Equal(t, "2:12\tREAL_CONST\t\"1.5\"", lines[6])
	assert.Equal(t, "2:20\tEOF\t\"\"", lines[9])
}

func TestTokensError(t *testing.T) {
	var buf bytes.Buffer
	err := emitTokens(&buf, "a := 1 @")
	require.Error(t, err)
	assert.Equal(t, "1:1\tID\t\"a\"\n1:3\tASSIGN\t\":=\"\n1:6\tINTEGER_CONST\t\"1\"\n", buf.String())
}

func TestAST(t *testing.T) {
	file := writeSource(t, sample)

	out, err := runApp(t, "ast", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "PROGRAM Sample;\nVAR\n    a : INTEGER;\n"), out)
	assert.Contains(t, out, "    MOVETO wp;\nEND.\n")

	out, err = runApp(t, "ast", "--raw", file)
	require.NoError(t, err)
	assert.Contains(t, out, "ast.Program")
	assert.Contains(t, out, `"Sample"`)
}

func TestDumpConfig(t *testing.T) {
	out, err := runApp(t, "--baud", "57600", "--device", "/dev/ttyS1", "dumpconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "Baud = 57600")
	assert.Contains(t, out, `Device = "/dev/ttyS1"`)
	assert.Contains(t, out, `Level = "error"`)

	file := filepath.Join(t.TempDir(), "cliq.toml")
	_, err = runApp(t, "dumpconfig", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Axes]")
}

func TestBadConfigFlag(t *testing.T) {
	_, err := runApp(t, "--log-format", "xml", "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}
