package parser_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"www.velocidex.com/golang/go-disktype/parser"
)

func TestClassify(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		line string
		kind parser.LineKind
	}{
		{"--- image.dd", parser.LineInputFile},
		{"Regular file, size 10.0 MiB (10485760 bytes)", parser.LineDiskMeta},
		{"DOS/MBR partition map", parser.LinePartitionMap},
		{"GPT partition map, 128 entries", parser.LinePartitionMap},
		{"Partition 9: 8.688 MiB (9109504 bytes, 17792 sectors from 183792)",
			parser.LinePartitionMeta},
		{"Partition 4: 0 bytes (0 sectors from 0)", parser.LinePartitionMeta},
		{"Partition 2: unused", parser.LinePartitionUnused},
		{"Type 7 (4.2BSD fast file system)", parser.LinePartitionPtypeAndPtypeStr},
		{"Type 0x07 (HPFS/NTFS)", parser.LinePartitionPtypeAndPtypeStr},
		{"Type 131", parser.LinePartitionPtypeInt},
		{`Type "Apple_HFS"`, parser.LinePartitionPtypeStr},
		{"Type EFI System (FAT) (GUID 28732AC1-1FF8-D211-BA4B-00A0C93EC93B)",
			parser.LinePartitionPtypeStrFtypeStrAndGUID},
		{"Type Basic Data (GUID A2A0D0EB-E5B9-3344-87C0-68B6B72699C7)",
			parser.LinePartitionPtypeStrAndGUID},
		{`Publisher   "MICROSOFT CORPORATION"`, parser.LinePublisher},
		{"ISOLINUX boot loader", parser.LineBootLoader},
		{"FAT32 file system (hints score 5 of 5)", parser.LineFileSystem},
		{"HFS wrapper for HFS Plus", parser.LineHFSWrapper},
		{"Volume size 30 MiB (31457280 bytes, 30720 blocks of 1 KiB)",
			parser.LineVolumeSizeBlocks},
		{"Volume size 31.98 MiB (33533952 bytes, 65496 clusters of 512 bytes)",
			parser.LineVolumeSizeClusters},
		{"Volume size 1.2 GiB (2345 clusters of 512 KiB)",
			parser.LineVolumeSizeClusters},
		{"Data size 10 MiB (10485760 bytes, 5120 blocks of 2 KiB)",
			parser.LineDataSize},
		{"Data size 10485760 bytes (5120 blocks of 2 KiB)", parser.LineDataSize},
		{`Joliet extension, volume name "CDROM"`, parser.LineISO9660Extension},
		{"UUID nil", parser.LineFileSystemUUID},
		{"gzip-compressed data at sector 0", parser.LineGzip},
		{"GNU tar archive", parser.LineTarArchive},
	} {
		event, err := parser.Classify([]byte(tc.line))
		assert.NoError(err, tc.line)
		if err == nil {
			assert.Equal(tc.kind, event.Kind, tc.line)
		}
	}
}

// Lines mentioning a file system that describe something else.
func TestClassifyFileSystemDisambiguation(t *testing.T) {
	assert := assert.New(t)

	event, err := parser.Classify([]byte(`Volume name "My file system backup"`))
	assert.NoError(err)
	assert.Equal(parser.LineVolumeName, event.Kind)
	assert.Equal("My file system backup", event.Text("name"))

	event, err = parser.Classify([]byte(`Application "Acme file system builder"`))
	assert.NoError(err)
	assert.Equal(parser.LineApplication, event.Kind)

	event, err = parser.Classify([]byte("Type 0xA6 (OpenBSD file system)"))
	assert.NoError(err)
	assert.Equal(parser.LinePartitionPtypeAndPtypeStr, event.Kind)
	assert.Equal("0xA6", event.Text("ptype"))

	_, err = parser.Classify([]byte("Type Linux file system"))
	assert.True(errors.Is(err, parser.ErrUnimplemented))
}

func TestClassifyCaptures(t *testing.T) {
	assert := assert.New(t)

	event, err := parser.Classify([]byte(
		"Partition 1: 100 MiB (104857600 bytes, 204800 sectors from 63, bootable)"))
	assert.NoError(err)
	assert.Equal("1", event.Text("index"))
	assert.Equal("104857600", event.Text("size"))
	assert.Equal("bytes", event.Text("unit"))
	assert.True(event.Has("bootable"))

	count, err := event.Uint("count")
	assert.NoError(err)
	assert.Equal(uint64(204800), count)

	event, err = parser.Classify([]byte(
		"Partition 2: 31 MiB (32505856 bytes, 63488 sectors from 67584)"))
	assert.NoError(err)
	assert.False(event.Has("bootable"))

	event, err = parser.Classify([]byte(
		"Volume size 646.5 MiB (677855232 bytes, 9194 blocks of 72 KiB)"))
	assert.NoError(err)
	assert.Equal("72", event.Text("size"))
	assert.Equal("KiB", event.Text("unit"))
}

// Labels may carry Latin-1 bytes.
func TestClassifyLatin1(t *testing.T) {
	event, err := parser.Classify([]byte("Volume name \"CAF\xc9\""))
	assert.NoError(t, err)
	assert.Equal(t, "CAFÉ", event.Text("name"))
}

func TestUnrecognized(t *testing.T) {
	_, err := parser.Classify([]byte("Lorem ipsum dolor sit amet"))
	assert.True(t, errors.Is(err, parser.ErrUnrecognizedLine))
}
