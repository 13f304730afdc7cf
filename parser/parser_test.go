package parser_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"www.velocidex.com/golang/go-disktype/parser"
)

type ParserTestSuite struct {
	suite.Suite
}

func (self *ParserTestSuite) parseFixture(name string) *parser.Document {
	fd, err := os.Open(filepath.Join("testdata", name+".txt"))
	require.NoError(self.T(), err)
	defer fd.Close()

	doc, err := parser.Parse(fd)
	require.NoError(self.T(), err)
	return doc
}

func (self *ParserTestSuite) TestGoldenTrees() {
	for _, name := range []string{
		"raw", "dos", "gpt", "iso9660", "hfs_wrapper"} {
		doc := self.parseFixture(name)

		g := goldie.New(self.T())
		g.Assert(self.T(), name, []byte(parser.DebugTree(doc)))
	}
}

func (self *ParserTestSuite) TestRawImage() {
	assert := assert.New(self.T())

	doc := self.parseFixture("raw")
	assert.Equal([]string{"img.raw"}, doc.Sources)
	assert.Equal(1, len(doc.DiskImages))

	disk := doc.DiskImages[0]
	assert.Equal(uint64(0), *disk.Run.Offset)
	assert.Equal(uint64(10485760), *disk.Run.Length)
	assert.Empty(disk.Volumes)
	assert.Empty(disk.PartitionSystems)
	assert.Empty(doc.Volumes())
}

func (self *ParserTestSuite) TestDOSPartition() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- img.dd
Regular file, size 200 MiB (209715200 bytes)
DOS/MBR partition map
Partition 1: 100 MiB (104857600 bytes, 204800 sectors from 63, bootable)
  Type 0x07 (HPFS/NTFS)
`))
	assert.NoError(err)

	ps := doc.DiskImages[0].PartitionSystems[0]
	assert.Equal("dos", ps.Type)
	assert.Equal(1, len(ps.Partitions))

	partition := ps.Partitions[0]
	assert.Equal(uint64(204800), *partition.BlockCount)
	assert.Equal(uint64(512), *partition.BlockSize)
	assert.Equal(uint64(104857600), *partition.Run.Length)
	assert.Equal(uint64(63*512), *partition.PartitionSystemOffset)
	assert.Equal(uint64(63*512), *partition.Run.Offset)
	assert.Equal(uint64(7), *partition.Type)
	assert.Equal("HPFS/NTFS", partition.TypeLabel)
	assert.True(partition.Bootable)
}

func (self *ParserTestSuite) TestISO9660SpansDisk() {
	assert := assert.New(self.T())

	doc := self.parseFixture("iso9660")
	volumes := doc.Volumes()
	assert.Equal(2, len(volumes))

	iso := volumes[0]
	assert.Equal("ISO9660", iso.FileSystemType)
	assert.Equal(uint64(0), *iso.Run.Offset)
	assert.Equal(uint64(10485760), *iso.Run.Length)
	assert.False(iso.Run.Provisional())

	floppy := iso.DiskImages[0]
	assert.Equal("1.44M floppy", floppy.Emulation)
	assert.Equal(uint64(27*2048), *floppy.Run.Offset)
	assert.Equal(uint64(1474560), *floppy.Run.Length)

	fat := volumes[1]
	assert.Equal("FAT12", fat.FileSystemType)
	assert.Equal(*floppy.Run.Offset, *fat.Run.Offset)
}

func (self *ParserTestSuite) TestFileSystemWithoutSize() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- cd.iso
Regular file, size 4 MiB (4194304 bytes)
ISO9660 file system
`))
	assert.NoError(err)

	volume := doc.Volumes()[0]
	assert.Equal(uint64(0), *volume.PartitionOffset)
	assert.Equal(uint64(4194304), *volume.Run.Length)
	assert.True(volume.Run.Provisional())
}

func (self *ParserTestSuite) TestFileSystemOffset() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- disk.img
Regular file, size 4 MiB (4194304 bytes)
Ext2 file system, 64 KiB offset
  Volume size 3.938 MiB (4128768 bytes, 4032 blocks of 1 KiB)
`))
	assert.NoError(err)

	volume := doc.Volumes()[0]
	assert.Equal(uint64(65536), *volume.PartitionOffset)
	assert.Equal(uint64(65536), *volume.Run.Offset)
	assert.Equal(uint64(4128768), *volume.Run.Length)
}

func (self *ParserTestSuite) TestUFSOffsetIgnored() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- ufs.img
Regular file, size 8 MiB (8388608 bytes)
UFS file system, 8 KiB offset, little-endian
`))
	assert.NoError(err)

	volume := doc.Volumes()[0]
	assert.Equal(uint64(0), *volume.PartitionOffset)
	assert.Equal(uint64(8388608), *volume.Run.Length)
}

func (self *ParserTestSuite) TestHFSWrapper() {
	assert := assert.New(self.T())

	doc := self.parseFixture("hfs_wrapper")
	volumes := doc.Volumes()
	assert.Equal(2, len(volumes))

	hfs := volumes[0]
	assert.Equal("HFS", hfs.FileSystemType)
	assert.Equal(uint64(9194), *hfs.BlockCount)
	assert.Equal(uint64(72*1024), *hfs.BlockSize)
	assert.Equal(uint64(495616), *hfs.Run.Offset)
	assert.Equal(uint64(73728*9194), *hfs.Run.Length)

	// Only the wrapper is a child of the partition.
	partition := doc.DiskImages[0].PartitionSystems[0].Partitions[1]
	assert.Equal([]*parser.Volume{hfs}, partition.Volumes)

	hfs_plus := volumes[1]
	assert.Equal([]*parser.Volume{hfs_plus}, hfs.WrappedVolumes())
	assert.Equal("HFS Plus", hfs_plus.FileSystemType)
	assert.True(hfs_plus.Wrapped)
	assert.Equal(uint64(165402), *hfs_plus.BlockCount)
	assert.Equal(uint64(4096), *hfs_plus.BlockSize)
	assert.Equal(uint64(4096*165402), *hfs_plus.Run.Length)
	assert.Nil(hfs_plus.Run.Offset)
}

func (self *ParserTestSuite) TestNestedFileSystem() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- nested.img
Regular file, size 16 MiB (16777216 bytes)
Apple partition map, 2 entries
Partition 1: 16 MiB (16776704 bytes, 32767 sectors from 1)
  Type "Apple_HFS"
  HFS file system
    Volume size 15.98 MiB (16760832 bytes, 4092 blocks of 4 KiB)
    HFS Plus file system
      Volume size 15.97 MiB (16744448 bytes, 4088 blocks of 4 KiB)
`))
	assert.NoError(err)

	partition := doc.DiskImages[0].PartitionSystems[0].Partitions[0]
	assert.Equal(1, len(partition.Volumes))

	outer := partition.Volumes[0]
	assert.Equal("HFS", outer.FileSystemType)

	inner := outer.WrappedVolumes()
	assert.Equal(1, len(inner))
	assert.Equal("HFS Plus", inner[0].FileSystemType)
	assert.Equal(uint64(16744448), *inner[0].Run.Length)
	assert.Nil(inner[0].Run.Offset)
}

func (self *ParserTestSuite) TestNestedDisklabel() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- sol.img
Regular file, size 16 MiB (16777216 bytes)
DOS/MBR partition map
Partition 1: 8 MiB (8388608 bytes, 16384 sectors from 2048)
  Type 191
  Solaris SPARC disklabel
  Partition 1: 4 MiB (4194304 bytes, 8192 sectors from 16)
    Type 2
    UFS file system, 64 KiB offset
`))
	assert.NoError(err)

	outer := doc.DiskImages[0].PartitionSystems[0].Partitions[0]
	assert.Equal(uint64(191), *outer.Type)
	assert.Equal(1, len(outer.PartitionSystems))

	sun := outer.PartitionSystems[0]
	assert.Equal("sun", sun.Type)
	assert.Equal(*outer.Run.Offset, *sun.Run.Offset)

	inner := sun.Partitions[0]
	assert.Equal(uint64(1048576+16*512), *inner.Run.Offset)

	volume := inner.Volumes[0]
	assert.Equal("UFS", volume.FileSystemType)
	assert.Equal(*inner.Run.Offset, *volume.PartitionOffset)
	assert.Equal(uint64(4194304), *volume.Run.Length)
}

func (self *ParserTestSuite) TestMultipleImages() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`
--- a.img
Regular file, size 1 MiB (1048576 bytes)

--- b.img
Regular file, size 2 MiB (2097152 bytes)
Blank disk/medium

`))
	assert.NoError(err)
	assert.Equal([]string{"a.img", "b.img"}, doc.Sources)
	assert.Equal(2, len(doc.DiskImages))
	assert.Equal(uint64(2097152), *doc.DiskImages[1].Run.Length)
}

func (self *ParserTestSuite) TestUnrecognizedLine() {
	assert := assert.New(self.T())

	_, err := parser.Parse(strings.NewReader(`--- img.raw
Regular file, size 10.0 MiB (10485760 bytes)
The quick brown fox jumps over the lazy dog
`))
	assert.Error(err)
	assert.True(errors.Is(err, parser.ErrUnrecognizedLine))

	parse_error, ok := err.(*parser.ParseError)
	assert.True(ok)
	assert.Equal(3, parse_error.LineNo)
	assert.Equal("The quick brown fox jumps over the lazy dog", parse_error.Line)
}

func (self *ParserTestSuite) TestIllegalTransition() {
	assert := assert.New(self.T())

	_, err := parser.Parse(strings.NewReader(`--- img.raw
Partition 1: 100 MiB (104857600 bytes, 204800 sectors from 63)
`))
	assert.Error(err)
	assert.True(errors.Is(err, parser.ErrIllegalTransition))
}

func (self *ParserTestSuite) TestGeometryMismatch() {
	assert := assert.New(self.T())

	_, err := parser.Parse(strings.NewReader(`--- bad.img
Regular file, size 1 MiB (1048576 bytes)
ISO9660 file system
  Volume name "BAD"
  Data size 1 MiB (1048576 bytes, 100 blocks of 2 KiB)
`))
	assert.Error(err)
	assert.True(errors.Is(err, parser.ErrGeometry))
}

func (self *ParserTestSuite) TestDataSizeOverflow() {
	assert := assert.New(self.T())

	// 2^53 + 512 blocks of 2 KiB wraps around to exactly 1 MiB.
	_, err := parser.Parse(strings.NewReader(`--- bad.img
Regular file, size 1 MiB (1048576 bytes)
ISO9660 file system
  Volume name "BAD"
  Data size 1 MiB (1048576 bytes, 9007199254741504 blocks of 2 KiB)
`))
	assert.Error(err)
	assert.True(errors.Is(err, parser.ErrGeometry))
}

func (self *ParserTestSuite) TestPartitionOffsetOverflow() {
	assert := assert.New(self.T())

	_, err := parser.Parse(strings.NewReader(`--- bad.img
Regular file, size 64 MiB (67108864 bytes)
DOS/MBR partition map
Partition 1: 1 MiB (1048576 bytes, 2048 sectors from 36028797018963968)
  Type 0x83 (Linux)
`))
	assert.Error(err)
	assert.True(errors.Is(err, parser.ErrGeometry))
}

// A map at the indent of an open partition closes the partition and
// its partition system.
func (self *ParserTestSuite) TestPartitionMapClosesPartition() {
	assert := assert.New(self.T())

	session := parser.NewParser(parser.GetDefaultOptions())
	doc, err := session.Parse(strings.NewReader(`--- gpt.img
Regular file, size 100 MiB (104857600 bytes)
DOS/MBR partition map
Partition 1: 100.0 MiB (104857088 bytes, 204799 sectors from 1)
  Type 0xEE (EFI GPT protective)
GPT partition map, 128 entries
Partition 1: 98 MiB (102760448 bytes, 200704 sectors from 2048)
  Type Basic Data (GUID EBD0A0A2-B9E5-4433-87C0-68B6B72699C7)
`))
	assert.NoError(err)

	disk := doc.DiskImages[0]
	assert.Equal(2, len(disk.PartitionSystems))

	dos := disk.PartitionSystems[0]
	assert.Equal("dos", dos.Type)
	assert.Equal(1, len(dos.Partitions))
	assert.Equal(0, len(dos.Partitions[0].PartitionSystems))

	gpt := disk.PartitionSystems[1]
	assert.Equal("gpt", gpt.Type)
	assert.Equal(1, len(gpt.Partitions))

	// The partition and the DOS map close before the GPT map opens.
	states := []parser.ParseState{}
	for _, transition := range session.Transitions() {
		states = append(states, transition.To)
	}

	second_map := -1
	starts := 0
	for idx, state := range states {
		if state == parser.PARTITION_SYSTEM_START {
			starts++
			if starts == 2 {
				second_map = idx
				break
			}
		}
	}
	require.True(self.T(), second_map > 2)
	assert.Equal(parser.PARTITION_END, states[second_map-2])
	assert.Equal(parser.PARTITION_SYSTEM_END, states[second_map-1])
}

func (self *ParserTestSuite) TestZeroLengthPartition() {
	assert := assert.New(self.T())

	doc, err := parser.Parse(strings.NewReader(`--- img.dd
Regular file, size 64 MiB (67108864 bytes)
DOS/MBR partition map
Partition 1: 32 MiB (33554432 bytes, 65536 sectors from 2048)
  Type 0x83 (Linux)
Partition 2: 0 bytes (0 sectors from 0)
  Type 0x05 (Extended)
`))
	assert.NoError(err)

	ps := doc.DiskImages[0].PartitionSystems[0]
	assert.Equal(2, len(ps.Partitions))
	assert.Equal(uint64(512), *ps.BlockSize)

	partition := ps.Partitions[1]
	assert.Equal("2", partition.Index)
	assert.Equal(uint64(0), *partition.BlockCount)
	assert.Nil(partition.BlockSize)
	assert.Equal(uint64(0), *partition.Run.Length)
	assert.Equal(uint64(0), *partition.PartitionSystemOffset)
	assert.Equal(uint64(0), *partition.Run.Offset)
	assert.Equal(uint64(5), *partition.Type)
}

func (self *ParserTestSuite) TestEmptyReport() {
	_, err := parser.Parse(strings.NewReader("\n\n"))
	assert.True(self.T(), errors.Is(err, parser.ErrIllegalTransition))
}

func (self *ParserTestSuite) TestTransitions() {
	assert := assert.New(self.T())

	session := parser.NewParser(parser.Options{})
	_, err := session.Parse(strings.NewReader(`--- img.raw
Regular file, size 10.0 MiB (10485760 bytes)
`))
	assert.NoError(err)

	transitions := session.Transitions()
	assert.Equal(parser.INPUT_START, transitions[0].From)
	assert.Equal(parser.DISK_START, transitions[0].To)
	assert.Equal(parser.INPUT_END, transitions[len(transitions)-1].To)

	for _, transition := range transitions {
		assert.True(parser.CanTransition(transition.From, transition.To),
			"%v -> %v", transition.From, transition.To)
	}

	stats := session.Stats()
	assert.Equal(2, stats.Lines)
	assert.Equal(len(transitions), stats.Transitions)
	assert.Equal(1, stats.Get_Kind(parser.LineDiskMeta))
}

// A session carries nothing over between reports.
func (self *ParserTestSuite) TestReuseParser() {
	assert := assert.New(self.T())

	data, err := os.ReadFile(filepath.Join("testdata", "dos.txt"))
	assert.NoError(err)

	session := parser.NewParser(parser.GetDefaultOptions())
	first, err := session.Parse(bytes.NewReader(data))
	assert.NoError(err)

	stats := session.Stats()
	lines := stats.Lines
	transitions := stats.Transitions

	second, err := session.Parse(bytes.NewReader(data))
	assert.NoError(err)

	assert.Equal(parser.DebugTree(first), parser.DebugTree(second))
	assert.Equal(1, len(second.DiskImages))

	// Counters are cleared in place, not replaced.
	assert.True(stats == session.Stats())
	assert.Equal(lines, stats.Lines)
	assert.Equal(transitions, stats.Transitions)
}

func (self *ParserTestSuite) TestMaxDepth() {
	options := parser.GetDefaultOptions()
	options.MaxDepth = 2

	_, err := parser.NewParser(options).Parse(
		strings.NewReader(`--- dos.dd
Regular file, size 64 MiB (67108864 bytes)
DOS/MBR partition map
Partition 1: 32 MiB (33554432 bytes, 65536 sectors from 2048)
`))
	assert.True(self.T(), errors.Is(err, parser.ErrStructuralMismatch))
}

func (self *ParserTestSuite) TestCreatorOptions() {
	options := parser.Options{
		Program:     "disktype-wrapper",
		CommandLine: "disktype img.raw",
	}

	doc, err := parser.NewParser(options).Parse(strings.NewReader(`--- img.raw
Regular file, size 10.0 MiB (10485760 bytes)
`))
	assert.NoError(self.T(), err)
	assert.Equal(self.T(), "disktype-wrapper", doc.Program)
	assert.Equal(self.T(), "0.1.0", doc.Version)
	assert.Equal(self.T(), "disktype img.raw", doc.CommandLine)
}

func TestParser(t *testing.T) {
	suite.Run(t, &ParserTestSuite{})
}
