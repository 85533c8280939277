package parser

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
)

// Container identifies the physical format of a spreadsheet file.
type Container int

const (
	// ContainerUnknown is anything that is not a spreadsheet.
	ContainerUnknown Container = iota
	// ContainerOOXML is a zip package (.xlsx, .xlsm).
	ContainerOOXML
	// ContainerLegacy is a BIFF workbook in an OLE2 compound file (.xls).
	ContainerLegacy
	// ContainerEncrypted is an OLE2 compound file wrapping an encrypted package.
	ContainerEncrypted
)

func (c Container) String() string {
	switch c {
	case ContainerOOXML:
		return "ooxml"
	case ContainerLegacy:
		return "biff"
	case ContainerEncrypted:
		return "encrypted"
	default:
		return "unknown"
	}
}

var (
	zipMagic      = []byte("PK\x03\x04")
	emptyZipMagic = []byte("PK\x05\x06")
	oleMagic      = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectContainer inspects the leading bytes and, for compound files, the
// stream directory.
func DetectContainer(data []byte) Container {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, emptyZipMagic):
		return ContainerOOXML
	case bytes.HasPrefix(data, oleMagic):
		return detectCompound(data)
	default:
		return ContainerUnknown
	}
}

func detectCompound(data []byte) Container {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return ContainerUnknown
	}

	found := ContainerUnknown
	for {
		entry, err := doc.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return ContainerUnknown
			}
			break
		}
		switch {
		case strings.EqualFold(entry.Name, "EncryptionInfo"), strings.EqualFold(entry.Name, "EncryptedPackage"):
			return ContainerEncrypted
		case strings.EqualFold(entry.Name, "Workbook"), strings.EqualFold(entry.Name, "Book"):
			found = ContainerLegacy
		}
	}
	return found
}
