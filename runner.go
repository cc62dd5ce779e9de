package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"k8s.io/klog/v2"
)

// ErrNoMatchingBenchmarks is wrapped by the error JMH returns when no
// benchmark class matches the include patterns.
var ErrNoMatchingBenchmarks = errors.New("no matching benchmarks")

const noMatchingBenchmarks = "No matching benchmarks"

// Options is what a Runner needs to execute a selection of benchmarks.
type Options struct {
	Includes              []string
	Forks                 int
	WarmupIterations      int
	MeasurementIterations int
}

// Runner executes benchmarks.
type Runner interface {
	Run(ctx context.Context, opts Options) error
}

// jmhRunner execs the JMH benchmarks jar. Its output is streamed unchanged.
type jmhRunner struct {
	command string
	args    []string
	stdout  io.Writer
	stderr  io.Writer
}

func newJMHRunner(c *Configuration, stdout, stderr io.Writer) *jmhRunner {
	return &jmhRunner{
		command: c.Command,
		args:    c.Args,
		stdout:  stdout,
		stderr:  stderr,
	}
}

func (r *jmhRunner) commandLine(opts Options) []string {
	args := append([]string{r.command}, r.args...)
	args = append(args, opts.Includes...)
	return append(args,
		"-f", strconv.Itoa(opts.Forks),
		"-wi", strconv.Itoa(opts.WarmupIterations),
		"-i", strconv.Itoa(opts.MeasurementIterations),
	)
}

func (r *jmhRunner) Run(ctx context.Context, opts Options) error {
	var stderr bytes.Buffer
	args := r.commandLine(opts)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = r.stdout
	cmd.Stderr = io.MultiWriter(r.stderr, &stderr)

	klog.V(2).InfoS("Exec benchmark runner", "cmd", cmd.String())
	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), noMatchingBenchmarks) {
			return fmt.Errorf("failed to run '%s' command: %w: %w", cmd, ErrNoMatchingBenchmarks, err)
		}
		return fmt.Errorf("failed to run '%s' command: %w", cmd, err)
	}
	return nil
}
