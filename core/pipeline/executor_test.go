package pipeline

import (
	"bytes"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/sish/core/shellerr"
)

func requirePrograms(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}
}

func newTestExecutor() (*Executor, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Executor{Stdout: stdout, Stderr: stderr}, stdout, stderr
}

func TestExecutor_RunSingle(t *testing.T) {
	requirePrograms(t, "echo")
	e, stdout, _ := newTestExecutor()

	result, err := e.RunSingle([]string{"echo", "hello", "world"})
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Greater(t, result.Stages[0].Pid, 0)
	assert.Equal(t, "hello world\n", stdout.String())
}

func TestExecutor_RunSingleNotFound(t *testing.T) {
	e, _, _ := newTestExecutor()

	result, err := e.RunSingle([]string{"sish-does-not-exist"})
	require.Error(t, err)
	assert.Equal(t, shellerr.KindNotFound, shellerr.KindOf(err))
	assert.False(t, shellerr.Fatal(err))
	assert.False(t, result.Stages[0].Started)
	assert.Contains(t, err.Error(), "sish-does-not-exist: command not found")
}

func TestExecutor_RunSingleExitStatus(t *testing.T) {
	requirePrograms(t, "false")
	e, _, _ := newTestExecutor()

	result, err := e.RunSingle([]string{"false"})
	require.NoError(t, err, "non-zero exit is not a wait failure")
	assert.Equal(t, 1, result.Stages[0].Status.ExitCode)
	assert.False(t, result.Success())
}

func TestExecutor_RunPipeline(t *testing.T) {
	requirePrograms(t, "echo", "tr")
	e, stdout, _ := newTestExecutor()

	result, err := e.Run("echo hello | tr a-z A-Z")
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n", stdout.String())

	require.Len(t, result.Stages, 2)
	for i, stage := range result.Stages {
		assert.True(t, stage.Started, "stage %d", i)
		assert.Equal(t, 0, stage.Status.ExitCode, "stage %d", i)
		assert.Greater(t, stage.Pid, 0, "stage %d", i)
	}
	assert.NotEqual(t, result.Stages[0].Pid, result.Stages[1].Pid)
	assert.Equal(t, []string{"tr", "a-z", "A-Z"}, result.Stages[1].Argv)
}

func TestExecutor_RunPipelineThreeStages(t *testing.T) {
	requirePrograms(t, "printf", "sort", "head")
	e, stdout, _ := newTestExecutor()

	_, err := e.Run(`printf c\nb\na\n | sort | head -n 2`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", stdout.String())
}

func TestExecutor_RunPipelineFailingStage(t *testing.T) {
	requirePrograms(t, "false", "true")
	e, _, _ := newTestExecutor()

	result, err := e.Run("false | true")
	require.NoError(t, err, "stage exit codes are not wait failures")
	assert.Equal(t, 1, result.Stages[0].Status.ExitCode)
	assert.Equal(t, 0, result.Stages[1].Status.ExitCode)
	assert.False(t, result.Success())
}

func TestExecutor_RunPipelineMissingProgram(t *testing.T) {
	requirePrograms(t, "echo", "cat")
	e, stdout, _ := newTestExecutor()

	// The reader sees end of stream when its missing writer never starts.
	result, err := e.Run("sish-does-not-exist | cat")
	require.Error(t, err)
	assert.False(t, shellerr.Fatal(err))
	assert.Equal(t, shellerr.KindNotFound, shellerr.KindOf(err))
	assert.Contains(t, err.Error(), "stage 1: sish-does-not-exist: command not found")

	assert.False(t, result.Stages[0].Started)
	assert.Zero(t, result.Stages[0].Pid)
	assert.True(t, result.Stages[1].Started)
	assert.Equal(t, 0, result.Stages[1].Status.ExitCode)
	assert.Empty(t, stdout.String())
}

func TestExecutor_RunPipelineMissingReader(t *testing.T) {
	requirePrograms(t, "echo")
	e, _, _ := newTestExecutor()

	result, err := e.Run("echo hi | sish-does-not-exist")
	require.Error(t, err)
	assert.False(t, shellerr.Fatal(err))
	assert.True(t, result.Stages[0].Started)
	assert.False(t, result.Stages[1].Started)
}

func TestExecutor_RunPipelineEmptyStage(t *testing.T) {
	requirePrograms(t, "echo", "cat")
	e, stdout, _ := newTestExecutor()

	result, err := e.Run("echo hi || cat")
	require.Error(t, err)
	assert.Equal(t, shellerr.KindNotFound, shellerr.KindOf(err))
	assert.Contains(t, err.Error(), "stage 2")
	assert.Contains(t, err.Error(), "command not found")
	assert.Len(t, result.Stages, 3)
	assert.Empty(t, result.Stages[1].Argv)
	assert.Empty(t, stdout.String())
}

func TestExecutor_RunPipelineSeveralMissing(t *testing.T) {
	e, _, _ := newTestExecutor()

	_, err := e.Run("sish-missing-a | sish-missing-b")
	require.Error(t, err)
	assert.Len(t, shellerr.Flatten(err), 2)
	assert.False(t, shellerr.Fatal(err))
}

func TestExecutor_RunPipelineStdin(t *testing.T) {
	requirePrograms(t, "cat", "tr")
	e, stdout, _ := newTestExecutor()
	e.Stdin = strings.NewReader("piped input\n")

	_, err := e.Run("cat | tr a-z A-Z")
	require.NoError(t, err)
	assert.Equal(t, "PIPED INPUT\n", stdout.String())
}

func TestExecutor_RunPipelineNoHang(t *testing.T) {
	requirePrograms(t, "cat")
	e, stdout, _ := newTestExecutor()
	e.Stdin = strings.NewReader("")

	// Every cat only exits once its upstream write end is fully closed.
	_, err := e.Run("cat | cat | cat | cat")
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestExecutor_Quoting(t *testing.T) {
	requirePrograms(t, "echo", "tr")
	e, stdout, _ := newTestExecutor()
	e.Quoting = true

	_, err := e.Run(`echo "a   b" | tr a-z A-Z`)
	require.NoError(t, err)
	assert.Equal(t, "A   B\n", stdout.String())

	_, err = e.Run(`echo "unterminated`)
	assert.Equal(t, shellerr.KindUsage, shellerr.KindOf(err))
}

func TestExecutor_RunPipelinePrecondition(t *testing.T) {
	e, _, _ := newTestExecutor()
	_, err := e.RunPipeline([]string{"ls"})
	assert.Error(t, err)
}
