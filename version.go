package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/blang/semver/v4"
	"k8s.io/klog/v2"
)

var (
	// "v1.2.3" is accepted wherever "1.2.3" is.
	versionPrefix = regexp.MustCompile(`\bv(\d)`)
	// java -version prints e.g. `openjdk version "17.0.2"` or `java version "1.8.0_292"`.
	javaVersionLine = regexp.MustCompile(`version "(\d+(?:\.\d+){0,2})`)
)

// versionRequired reports whether version satisfies the semver range in
// requirement. An empty requirement is always satisfied.
func versionRequired(requirement, version string) bool {
	if requirement == "" {
		return true
	}
	r, err := semver.ParseRange(versionPrefix.ReplaceAllString(requirement, "$1"))
	if err != nil {
		klog.ErrorS(err, "Invalid version requirement", "requirement", requirement)
		return false
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		klog.ErrorS(err, "Invalid version", "version", version)
		return false
	}
	return r(v)
}

func parseJavaVersion(out []byte) (string, error) {
	m := javaVersionLine.FindSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("unable to find a version in %q", bytes.TrimSpace(out))
	}
	return string(m[1]), nil
}

// checkJavaVersion runs `<command> -version` and verifies the reported
// version against requirement.
func checkJavaVersion(ctx context.Context, command, requirement string) error {
	if requirement == "" {
		return nil
	}
	out, err := exec.CommandContext(ctx, command, "-version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("unable to get the version of '%s': %w", command, err)
	}
	version, err := parseJavaVersion(out)
	if err != nil {
		return err
	}
	klog.V(1).InfoS("Found Java runtime", "command", command, "version", version)
	if !versionRequired(requirement, version) {
		return fmt.Errorf("'%s' version %s does not satisfy requirement '%s'", command, version, requirement)
	}
	return nil
}
