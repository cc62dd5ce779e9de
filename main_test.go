package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	configurations []*Configuration
	opts           []Options
	err            error
}

func (f *fakeRunner) Run(_ context.Context, opts Options) error {
	f.opts = append(f.opts, opts)
	return f.err
}

func execute(f *fakeRunner, args ...string) (string, error) {
	cmd := newRootCommand(func(c *Configuration, _, _ io.Writer) Runner {
		f.configurations = append(f.configurations, c)
		return f
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunSelection(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected Options
	}{
		{
			name: "ser stream jackson",
			args: []string{"ser", "--apis", "stream", "--libraries", "jackson"},
			expected: Options{
				Includes:              []string{".*StreamSerialization.jackson*"},
				Forks:                 1,
				WarmupIterations:      5,
				MeasurementIterations: 5,
			},
		},
		{
			name: "deser defaults with tuning",
			args: []string{"deser", "-f", "2", "-w", "1", "-m", "3"},
			expected: Options{
				Includes:              []string{".*StreamDeserialization.*", ".*DatabindDeserialization.*"},
				Forks:                 2,
				WarmupIterations:      1,
				MeasurementIterations: 3,
			},
		},
		{
			name: "global flags before the command",
			args: []string{"--forks", "0", "ser", "--apis", "databind"},
			expected: Options{
				Includes:              []string{".*DatabindSerialization.*"},
				Forks:                 0,
				WarmupIterations:      5,
				MeasurementIterations: 5,
			},
		},
	}
	for _, tCase := range testCases {
		t.Run(tCase.name, func(t *testing.T) {
			f := &fakeRunner{}
			_, err := execute(f, tCase.args...)
			require.NoError(t, err)
			require.Len(t, f.opts, 1)
			assert.Equal(t, tCase.expected, f.opts[0])
		})
	}
}

func TestRunConfigurationFile(t *testing.T) {
	path := writeConfiguration(t, `
command: ./gradlew
args: ["jmh", "--"]
forks: 3
warmupIterations: 2
libraries: gson
`)
	f := &fakeRunner{}
	_, err := execute(f, "--config", path, "-w", "4", "ser", "--libraries", "fastjson,gson")
	require.NoError(t, err)
	require.Len(t, f.opts, 1)
	assert.Equal(t, Options{
		Includes: []string{
			".*StreamSerialization.fastjson*",
			".*StreamSerialization.gson*",
			".*DatabindSerialization.fastjson*",
			".*DatabindSerialization.gson*",
		},
		Forks:                 3,
		WarmupIterations:      4,
		MeasurementIterations: 5,
	}, f.opts[0])
	require.Len(t, f.configurations, 1)
	assert.Equal(t, "./gradlew", f.configurations[0].Command)
	assert.Equal(t, []string{"jmh", "--"}, f.configurations[0].Args)
}

func TestRunInvalidSelection(t *testing.T) {
	for _, args := range [][]string{
		{"ser", "--apis", "xml"},
		{"deser", "--libraries", "jackson,boost"},
	} {
		f := &fakeRunner{}
		_, err := execute(f, args...)
		require.Error(t, err)
		assert.Equal(t, 2, exitCode(err))
		assert.Empty(t, f.opts, "the runner must not be invoked")
	}
}

func TestRunUsageErrors(t *testing.T) {
	f := &fakeRunner{}
	_, err := execute(f, "ser", "--bogus")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(f, "deser", "-f", "many")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(f, "ser", "extra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "extra"`)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(f, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "bogus" for "jsonbench"`)
	assert.Equal(t, 2, exitCode(err))
	assert.Empty(t, f.opts)
}

func TestRunRunnerFailure(t *testing.T) {
	f := &fakeRunner{err: ErrNoMatchingBenchmarks}
	_, err := execute(f, "ser", "--libraries", "jsonio")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatchingBenchmarks))
	assert.Equal(t, 1, exitCode(err))
	assert.Len(t, f.opts, 1)
}

func TestRunJavaVersionRequirement(t *testing.T) {
	path := writeConfiguration(t, `
command: /nonexistent/java
javaVersion: ">=1.8.0"
`)
	f := &fakeRunner{}
	_, err := execute(f, "--config", path, "ser")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Empty(t, f.opts)
}

func TestDryRun(t *testing.T) {
	f := &fakeRunner{}
	out, err := execute(f, "--dry-run", "-f", "2", "deser", "--apis", "stream", "--libraries", "genson,orgjson")
	require.NoError(t, err)
	assert.Empty(t, f.opts)
	assert.Contains(t, out, ".*StreamDeserialization.genson*")
	assert.Contains(t, out, ".*StreamDeserialization.orgjson*")
	assert.Contains(t, out, "java -jar target/benchmarks.jar .*StreamDeserialization.genson* .*StreamDeserialization.orgjson* -f 2 -wi 5 -i 5")
}

func TestHelpWithoutCommand(t *testing.T) {
	f := &fakeRunner{}
	out, err := execute(f)
	require.NoError(t, err)
	assert.Contains(t, out, "ser")
	assert.Contains(t, out, "deser")
	assert.Empty(t, f.opts)
}
