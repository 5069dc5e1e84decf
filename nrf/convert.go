package nrf

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// Converter turns an extended HEX file into a device image.
type Converter interface {
	Convert(ctx context.Context, hexPath, imagePath string, family uint32) error
}

// ExternalConverter runs uf2conv.py (or a compatible tool) as
//
//	<Interpreter> <Script> <hex> -c -f <family> -o <image>
//
// The exit status alone decides success. Output is logged line by line.
type ExternalConverter struct {
	// Interpreter runs Script; when empty Script is executed directly.
	Interpreter string
	Script      string
	// Dir is the working directory of the process.
	Dir string
}

func (c *ExternalConverter) command(hexPath, imagePath string, family uint32) (string, []string) {
	args := []string{hexPath, "-c", "-f", fmt.Sprintf("0x%08X", family), "-o", imagePath}
	if c.Interpreter == "" {
		return c.Script, args
	}
	return c.Interpreter, append([]string{c.Script}, args...)
}

func (c *ExternalConverter) Convert(ctx context.Context, hexPath, imagePath string, family uint32) error {
	// the tool runs in Dir, so relative paths must not be resolved there
	var err error
	if hexPath, err = filepath.Abs(hexPath); err != nil {
		return err
	}
	if imagePath, err = filepath.Abs(imagePath); err != nil {
		return err
	}
	name, args := c.command(hexPath, imagePath, family)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	glog.V(1).Infof("running %s", strings.Join(cmd.Args, " "))
	err = cmd.Run()
	logToolOutput(name, stdout.String(), stderr.String())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return &ExternalToolError{
			Args:   cmd.Args,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return nil
}

func logToolOutput(name, stdout, stderr string) {
	sc := bufio.NewScanner(strings.NewReader(stdout))
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(strings.ToLower(line), "error") {
			glog.Warningf("%s: %s", name, line)
			continue
		}
		glog.V(1).Infof("%s: %s", name, line)
	}
	sc = bufio.NewScanner(strings.NewReader(stderr))
	for sc.Scan() {
		glog.Warningf("%s: %s", name, sc.Text())
	}
}
