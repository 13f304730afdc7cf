package disktype_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sebdah/goldie"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
	disktype "www.velocidex.com/golang/go-disktype"
	"www.velocidex.com/golang/go-disktype/parser"
)

const dosReport = "parser/testdata/dos.txt"

// Replays a fixed report and counts how often it was asked for one.
type fakeRunner struct {
	report []byte
	err    error
	calls  int
}

func (self *fakeRunner) CommandLine(image string) []string {
	return []string{"disktype", image}
}

func (self *fakeRunner) Run(ctx context.Context, image string) ([]byte, error) {
	self.calls++
	return self.report, self.err
}

func readReport(t *testing.T, path string) []byte {
	data, err := os.ReadFile(path)
	assert.NoError(t, err, "Unable to open report")
	return data
}

func TestRuns(t *testing.T) {
	assert := assert.New(t)

	fd, err := os.Open(dosReport)
	assert.NoError(err, "Unable to open file")
	defer fd.Close()

	doc, err := disktype.ParseReport(fd, parser.GetDefaultOptions())
	assert.NoError(err)

	lines := []string{}
	for _, run := range parser.DebugRuns(doc) {
		lines = append(lines, run.String())
	}

	goldie.Assert(t, "TestRuns", []byte(strings.Join(lines, "\n")))
}

func TestDescribeJSON(t *testing.T) {
	assert := assert.New(t)

	doc, err := disktype.ParseReport(
		strings.NewReader(string(readReport(t, dosReport))),
		parser.GetDefaultOptions())
	assert.NoError(err)

	serialized, err := disktype.DescribeJSON(doc)
	assert.NoError(err)

	json := string(serialized)
	assert.True(gjson.Valid(json))

	assert.Equal("godisktype", gjson.Get(json, "Program").String())
	assert.Equal("dos.dd", gjson.Get(json, "Sources.0").String())
	assert.Equal("pstype_str", gjson.Get(json, "Extensions.1.Name").String())

	disk := gjson.Get(json, "DiskImages.0")
	assert.Equal(int64(67108864), disk.Get("ByteRun.Length").Int())
	assert.Equal(int64(512), disk.Get("SectorSize").Int())

	ps := disk.Get("PartitionSystems.0")
	assert.Equal("dos", ps.Get("PartitionSystemType").String())

	// The partition system length is never reported.
	length := ps.Get("ByteRun.Length")
	assert.True(length.Exists())
	assert.Equal(gjson.Null, length.Type)

	assert.Equal(int64(4), ps.Get("Partitions.#").Int())
	assert.True(ps.Get("Partitions.3.Unused").Bool())
	assert.False(ps.Get("Partitions.3.ByteRun").Exists())

	partition := ps.Get("Partitions.0")
	assert.Equal(int64(0x0c), partition.Get("PartitionType").Int())
	assert.True(partition.Get("Bootable").Bool())

	volume := partition.Get("Volumes.0")
	assert.Equal("FAT32", volume.Get("FileSystemType").String())
	assert.Equal("BOOT", volume.Get("Name").String())
	assert.Equal(int64(1048576), volume.Get("PartitionOffset").Int())
	assert.Equal(int64(33533952), volume.Get("ByteRun.Length").Int())
	assert.Equal([]string{"pstype_str", "ptype", "ptype_str", "partition_byte_run"},
		extensionNames(volume.Get("Extensions")))
}

func TestStatsJSON(t *testing.T) {
	assert := assert.New(t)

	session := parser.NewParser(parser.GetDefaultOptions())
	_, err := session.Parse(strings.NewReader(`--- img.raw
Regular file, size 10.0 MiB (10485760 bytes)
`))
	assert.NoError(err)

	serialized, err := disktype.StatsJSON(session.Stats())
	assert.NoError(err)

	json := string(serialized)
	assert.True(gjson.Valid(json))
	assert.Equal(int64(2), gjson.Get(json, "Lines").Int())
	assert.Equal(int64(0), gjson.Get(json, "BlankLines").Int())
	assert.Equal(int64(len(session.Transitions())),
		gjson.Get(json, "Transitions").Int())
	assert.Equal(int64(1), gjson.Get(json, "LineKinds.disk_meta").Int())

	// Counters keep their declared order.
	keys := []string{}
	gjson.Parse(json).ForEach(func(key, value gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal([]string{"Lines", "BlankLines", "Transitions", "LineKinds"}, keys)
}

func extensionNames(extensions gjson.Result) []string {
	result := []string{}
	for _, ext := range extensions.Array() {
		result = append(result, ext.Get("Name").String())
	}
	return result
}

func TestParseFile(t *testing.T) {
	assert := assert.New(t)

	fs := afero.NewMemMapFs()
	err := afero.WriteFile(fs, "/reports/dos.txt", readReport(t, dosReport), 0666)
	assert.NoError(err)

	doc, err := disktype.ParseFile(fs, "/reports/dos.txt", parser.GetDefaultOptions())
	assert.NoError(err)
	assert.Equal(1, len(doc.DiskImages))
	assert.Equal(2, len(doc.Volumes()))

	_, err = disktype.ParseFile(fs, "/reports/missing.txt", parser.GetDefaultOptions())
	assert.Error(err)
}

func TestParseImage(t *testing.T) {
	assert := assert.New(t)

	runner := &fakeRunner{report: readReport(t, dosReport)}
	doc, err := disktype.ParseImage(context.Background(), runner, "dos.dd",
		parser.GetDefaultOptions())
	assert.NoError(err)
	assert.Equal("disktype dos.dd", doc.CommandLine)
	assert.Equal([]string{"dos.dd"}, doc.Sources)

	// An explicit command line wins.
	options := parser.GetDefaultOptions()
	options.CommandLine = "disktype -q dos.dd"
	doc, err = disktype.ParseImage(context.Background(), runner, "dos.dd", options)
	assert.NoError(err)
	assert.Equal("disktype -q dos.dd", doc.CommandLine)

	runner = &fakeRunner{err: errors.New("no such image")}
	_, err = disktype.ParseImage(context.Background(), runner, "dos.dd",
		parser.GetDefaultOptions())
	assert.Error(err)
}

func TestRecorder(t *testing.T) {
	assert := assert.New(t)

	fs := afero.NewMemMapFs()
	runner := &fakeRunner{report: readReport(t, dosReport)}
	recorder := disktype.NewRecorder(fs, "/record", runner)

	report, err := recorder.Run(context.Background(), "/images/dos.dd")
	assert.NoError(err)
	assert.Equal(runner.report, report)
	assert.Equal(1, runner.calls)

	path := recorder.ReportPath("/images/dos.dd")
	assert.Equal("/record", filepath.Dir(path))
	assert.True(strings.HasSuffix(path, ".txt"))

	saved, err := afero.ReadFile(fs, path)
	assert.NoError(err)
	assert.Equal(runner.report, saved)

	// The second run is served from the recording.
	report, err = recorder.Run(context.Background(), "/images/dos.dd")
	assert.NoError(err)
	assert.Equal(runner.report, report)
	assert.Equal(1, runner.calls)

	// Different images get different recordings.
	assert.NotEqual(path, recorder.ReportPath("/images/other.dd"))
}

func TestRecorderDoesNotRecordFailures(t *testing.T) {
	assert := assert.New(t)

	fs := afero.NewMemMapFs()
	runner := &fakeRunner{err: errors.New("disktype failed")}
	recorder := disktype.NewRecorder(fs, "/record", runner)

	_, err := recorder.Run(context.Background(), "/images/bad.dd")
	assert.Error(err)

	exists, err := afero.Exists(fs, recorder.ReportPath("/images/bad.dd"))
	assert.NoError(err)
	assert.False(exists)
}

func TestDisktypeRunner(t *testing.T) {
	assert := assert.New(t)

	// cat stands in for disktype: it prints the saved report.
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat is not available")
	}

	runner := disktype.NewDisktypeRunner(cat)
	assert.Equal([]string{cat, dosReport}, runner.CommandLine(dosReport))

	doc, err := disktype.ParseImage(context.Background(), runner, dosReport,
		parser.GetDefaultOptions())
	assert.NoError(err)
	assert.Equal(cat+" "+dosReport, doc.CommandLine)
	assert.Equal(2, len(doc.Volumes()))

	_, err = runner.Run(context.Background(), "parser/testdata/missing.txt")
	assert.Error(err)
}

func TestDisktypeRunnerDefaults(t *testing.T) {
	runner := disktype.NewDisktypeRunner("")
	assert.Equal(t, disktype.DefaultDisktypePath, runner.Binary)
}

func init() {
	spew.Config.DisablePointerAddresses = true
	spew.Config.SortKeys = true
}
