package project

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Eclipse link types.
const (
	LinkTypeFile   = 1
	LinkTypeFolder = 2
)

// Description is the Eclipse .project file.
type Description struct {
	XMLName xml.Name         `xml:"projectDescription"`
	Name    string           `xml:"name"`
	Links   []LinkedResource `xml:"linkedResources>link"`
}

// LinkedResource declares that a file stored elsewhere is part of the build.
type LinkedResource struct {
	Name        string `xml:"name"`
	Type        int    `xml:"type"`
	Location    string `xml:"location"`
	LocationURI string `xml:"locationURI"`
}

// IsFile reports whether the link points at a single file with a location.
// Virtual folders only carry a locationURI and are not files.
func (l LinkedResource) IsFile() bool {
	return l.Type != LinkTypeFolder && l.Location != ""
}

// LoadDescription reads and decodes a .project file.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	desc, err := ParseDescription(data)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	return desc, nil
}

// ParseDescription decodes the contents of a .project file.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	if err := xml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to decode project description: %w", err)
	}
	return &desc, nil
}
