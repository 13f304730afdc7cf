package disktype

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

const DefaultDisktypePath = "disktype"

// Runner produces the disktype report for an image.
type Runner interface {
	Run(ctx context.Context, image string) ([]byte, error)
	CommandLine(image string) []string
}

// DisktypeRunner executes the disktype binary.
type DisktypeRunner struct {
	Binary string
}

func NewDisktypeRunner(binary string) *DisktypeRunner {
	if binary == "" {
		binary = DefaultDisktypePath
	}
	return &DisktypeRunner{Binary: binary}
}

func (self *DisktypeRunner) CommandLine(image string) []string {
	return []string{self.Binary, image}
}

func (self *DisktypeRunner) Run(ctx context.Context, image string) ([]byte, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	command := exec.CommandContext(ctx, self.Binary, image)
	command.Stdout = stdout
	command.Stderr = stderr

	err := command.Run()
	if err != nil {
		return nil, errors.Wrapf(err, "running %v on %v: %s",
			self.Binary, image, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
