package disktype

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Recorder saves every report it produces so later runs can replay
// them without the image or the disktype binary.
type Recorder struct {
	fs   afero.Fs
	path string

	// Delegate runner
	runner Runner
}

func NewRecorder(fs afero.Fs, path string, runner Runner) *Recorder {
	return &Recorder{fs: fs, path: path, runner: runner}
}

// Reports are keyed by a name based UUID of the image path.
func (self *Recorder) ReportPath(image string) string {
	absolute, err := filepath.Abs(image)
	if err != nil {
		absolute = image
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+absolute))
	return filepath.Join(self.path, id.String()+".txt")
}

func (self *Recorder) CommandLine(image string) []string {
	return self.runner.CommandLine(image)
}

func (self *Recorder) Run(ctx context.Context, image string) ([]byte, error) {
	// Check if the report comes from the record directory.
	full_path := self.ReportPath(image)
	exists, err := afero.Exists(self.fs, full_path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if exists {
		DebugPrint("Replaying report for %v from %v\n", image, full_path)
		return afero.ReadFile(self.fs, full_path)
	}

	// Not recorded yet - run the delegate and record it for next
	// time.
	report, err := self.runner.Run(ctx, image)
	if err != nil {
		return nil, err
	}

	err = self.fs.MkdirAll(self.path, 0770)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = afero.WriteFile(self.fs, full_path, report, 0660)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	DebugPrint("Recorded report for %v in %v\n", image, full_path)
	return report, nil
}
