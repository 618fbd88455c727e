package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dawnlang/dawn/dawnerr"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"build", []string{"-b", "main.dawn", "app"}, []string{"build", "main.dawn", "app"}},
		{"build and run", []string{"-br", "main.dawn", "app"}, []string{"run", "main.dawn", "app"}},
		{"debug first", []string{"-d", "-b", "main.dawn", "app"}, []string{"--debug", "build", "main.dawn", "app"}},
		{"debug last", []string{"-b", "main.dawn", "app", "-d"}, []string{"build", "main.dawn", "app", "--debug"}},
		{"commands untouched", []string{"build", "main.dawn", "app"}, []string{"build", "main.dawn", "app"}},
		{"program args untouched", []string{"-br", "main.dawn", "app", "--", "-b", "-d"}, []string{"run", "main.dawn", "app", "--", "-b", "-d"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeArgs(tt.args))
		})
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		detailed bool
		want     string
		code     int
	}{
		{
			name: "missing source",
			err:  &dawnerr.SourceNotFoundError{Path: "main.dawn"},
			want: "ERROR: File cannot be found\n",
			code: 1,
		},
		{
			name: "phase fault",
			err:  dawnerr.NewPhaseError(dawnerr.PhaseCompile, errors.New("exit status 1")),
			want: "ERROR CODE: cf200\n",
			code: 1,
		},
		{
			name: "wrapped phase fault",
			err:  fmt.Errorf("building: %w", dawnerr.NewPhaseErrorAt(dawnerr.PhaseConvert, "main.dawn", 3, 7, "foo", "unresolved identifier")),
			want: "ERROR CODE: c100\n",
			code: 1,
		},
		{
			name:     "detailed phase fault",
			err:      dawnerr.NewPhaseError(dawnerr.PhaseCleanup, errors.New("gone")),
			detailed: true,
			want:     "ERROR CODE: cl100\n[PhaseError] cl100 (cleanup): gone\n",
			code:     1,
		},
		{
			name: "usage error",
			err:  errors.New("accepts 2 arg(s), received 1"),
			want: "Error: accepts 2 arg(s), received 1\n",
			code: 1,
		},
		{
			name: "program exit status",
			err:  &exitCodeError{code: 3},
			want: "",
			code: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := report(&buf, tt.err, tt.detailed)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, true).Debug("shown", "phase", "convert")
	assert.Equal(t, "msg=shown phase=convert\n", buf.String())
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(NormalizeArgs(args))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		transpileOutput = ""
		debug = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "DawnLang version dev\n", out)
}

func TestTranspileCommand(t *testing.T) {
	t.Setenv("DAWN_HOME", t.TempDir())
	dir := t.TempDir()
	input := filepath.Join(dir, "main.dawn")
	require.NoError(t, os.WriteFile(input, []byte("int a = 5;\nprint_int(a);\n"), 0644))

	out, err := runRoot(t, "transpile", input)
	require.NoError(t, err)
	assert.Equal(t, "#include <stdio.h>\n\nint a = 5;\nprintf(\"%d\\n\", a);\n", out)

	cFile := filepath.Join(dir, "main.c")
	out, err = runRoot(t, "-d", "transpile", input, "-o", cFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated C code saved to")
	assert.FileExists(t, cFile)
}

func TestBuildCommand_MissingSource(t *testing.T) {
	t.Setenv("DAWN_HOME", t.TempDir())

	_, err := runRoot(t, "-b", filepath.Join(t.TempDir(), "missing.dawn"), "app")
	require.Error(t, err)

	var buf bytes.Buffer
	assert.Equal(t, 1, report(&buf, err, false))
	assert.Equal(t, "ERROR: File cannot be found\n", buf.String())
}

func TestBuildCommand_Arity(t *testing.T) {
	_, err := runRoot(t, "build", "main.dawn")
	assert.Error(t, err)
}
