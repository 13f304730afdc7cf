// Package dfxml serializes a parsed disktype report as Digital
// Forensics XML.
package dfxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"www.velocidex.com/golang/go-disktype/parser"
)

const (
	XMLNS_DFXML     = "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML"
	XMLNS_DFXML_EXT = XMLNS_DFXML + "#extensions"

	DFXML_VERSION = "1.1.1"
)

type Writer struct {
	encoder *xml.Encoder
}

func NewWriter(writer io.Writer) *Writer {
	encoder := xml.NewEncoder(writer)
	encoder.Indent("", "  ")
	return &Writer{encoder: encoder}
}

// Write emits the whole document. Volumes are listed flat in the order
// they were found; volumes embedded in another are nested inside it.
func Write(writer io.Writer, doc *parser.Document) error {
	_, err := io.WriteString(writer, xml.Header)
	if err != nil {
		return err
	}

	self := NewWriter(writer)
	err = self.WriteDocument(doc)
	if err != nil {
		return err
	}

	_, err = io.WriteString(writer, "\n")
	return err
}

func (self *Writer) WriteDocument(doc *parser.Document) error {
	root := xml.StartElement{
		Name: xml.Name{Local: "dfxml"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: XMLNS_DFXML},
			{Name: xml.Name{Local: "xmlns:dfxmlext"}, Value: XMLNS_DFXML_EXT},
			{Name: xml.Name{Local: "version"}, Value: DFXML_VERSION},
		},
	}

	err := self.encoder.EncodeToken(root)
	if err != nil {
		return err
	}

	err = self.writeCreator(doc)
	if err != nil {
		return err
	}

	if len(doc.Sources) > 0 {
		err = self.open("source")
		if err != nil {
			return err
		}
		for _, source := range doc.Sources {
			err = self.text("image_filename", source)
			if err != nil {
				return err
			}
		}
		err = self.close("source")
		if err != nil {
			return err
		}
	}

	for _, ext := range doc.Extensions {
		err = self.writeExtension(ext)
		if err != nil {
			return err
		}
	}

	for _, volume := range doc.Volumes() {
		if volume.Wrapped {
			continue
		}
		err = self.writeVolume(volume)
		if err != nil {
			return err
		}
	}

	err = self.encoder.EncodeToken(root.End())
	if err != nil {
		return err
	}
	return errors.WithStack(self.encoder.Flush())
}

func (self *Writer) writeCreator(doc *parser.Document) error {
	err := self.encoder.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: "creator"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: "1.0"}},
	})
	if err != nil {
		return err
	}

	err = self.text("program", doc.Program)
	if err != nil {
		return err
	}

	err = self.text("version", doc.Version)
	if err != nil {
		return err
	}

	if doc.CommandLine != "" {
		err = self.open("execution_environment")
		if err != nil {
			return err
		}
		err = self.text("command_line", doc.CommandLine)
		if err != nil {
			return err
		}
		err = self.close("execution_environment")
		if err != nil {
			return err
		}
	}

	return self.close("creator")
}

func (self *Writer) writeVolume(volume *parser.Volume) error {
	err := self.open("volume")
	if err != nil {
		return err
	}

	for _, field := range []struct {
		name  string
		value *uint64
	}{
		{"partition_offset", volume.PartitionOffset},
		{"sector_size", volume.SectorSize},
		{"block_size", volume.BlockSize},
	} {
		err = self.optional(field.name, field.value)
		if err != nil {
			return err
		}
	}

	if volume.FileSystemType != "" {
		err = self.text("ftype_str", volume.FileSystemType)
		if err != nil {
			return err
		}
	}

	err = self.optional("block_count", volume.BlockCount)
	if err != nil {
		return err
	}

	err = self.open("byte_runs")
	if err != nil {
		return err
	}
	err = self.byteRun("byte_run", &volume.Run)
	if err != nil {
		return err
	}
	err = self.close("byte_runs")
	if err != nil {
		return err
	}

	if volume.Name != "" {
		err = self.text("dfxmlext:volume_name", volume.Name)
		if err != nil {
			return err
		}
	}

	for _, ext := range volume.Extensions {
		err = self.writeExtension(ext)
		if err != nil {
			return err
		}
	}

	return self.close("volume")
}

func (self *Writer) writeExtension(ext parser.Extension) error {
	name := "dfxmlext:" + ext.Name()

	switch t := ext.(type) {
	case *parser.PartitionSystemType:
		return self.text(name, t.Type)

	case *parser.GUID:
		return self.text(name, t.Value)

	case *parser.PartitionType:
		return self.text(name, fmt.Sprintf("%d", t.Code))

	case *parser.PartitionTypeLabel:
		return self.text(name, t.Label)

	case *parser.PartitionByteRun:
		return self.byteRun(name, &t.Run)

	case *parser.DiskImageByteRun:
		return self.byteRun(name, &t.Run)

	case *parser.UUID:
		return self.text(name, t.Value)

	case *parser.ISO9660Extension:
		err := self.encoder.EncodeToken(xml.StartElement{
			Name: xml.Name{Local: name},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "volume_name"}, Value: t.VolumeName}},
		})
		if err != nil {
			return err
		}
		err = self.encoder.EncodeToken(xml.CharData(t.Extension))
		if err != nil {
			return err
		}
		return self.close(name)

	case *parser.WrappedVolume:
		err := self.open(name)
		if err != nil {
			return err
		}
		err = self.writeVolume(t.Volume)
		if err != nil {
			return err
		}
		return self.close(name)
	}

	return errors.Errorf("unsupported extension %T", ext)
}

// Unknown byte run fields are left out.
func (self *Writer) byteRun(name string, run *parser.ByteRun) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if run.Offset != nil {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "img_offset"},
			Value: fmt.Sprintf("%d", *run.Offset),
		})
	}
	if run.Length != nil {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "len"},
			Value: fmt.Sprintf("%d", *run.Length),
		})
	}

	err := self.encoder.EncodeToken(start)
	if err != nil {
		return err
	}
	return self.encoder.EncodeToken(start.End())
}

func (self *Writer) optional(name string, value *uint64) error {
	if value == nil {
		return nil
	}
	return self.text(name, fmt.Sprintf("%d", *value))
}

func (self *Writer) text(name, value string) error {
	err := self.open(name)
	if err != nil {
		return err
	}
	err = self.encoder.EncodeToken(xml.CharData(value))
	if err != nil {
		return err
	}
	return self.close(name)
}

func (self *Writer) open(name string) error {
	return self.encoder.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
}

func (self *Writer) close(name string) error {
	return self.encoder.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}
