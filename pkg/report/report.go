// Package report renders selection results into the requested output shape:
// a human-readable table, bare identifiers for shell capture, smoke-test
// launch arguments, or YAML.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"sigs.k8s.io/yaml"

	"github.com/lucas-albers-lz4/amifind/pkg/ami"
)

// Shape selects how much of each record is rendered.
type Shape int

const (
	// ShapeFull renders identifier plus family, name, and creation time
	// for human and debug use.
	ShapeFull Shape = iota
	// ShapeJustID renders only the identifier, suitable for direct shell
	// variable capture.
	ShapeJustID
	// ShapeSmokeTest renders aws-cli launch arguments for the selected
	// image, matching its architecture's burstable instance family.
	ShapeSmokeTest
)

// Format selects the encoding for ShapeFull output.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText:
		return FormatText, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text or yaml)", s)
	}
}

// imageDoc is the YAML document shape for one selected image.
type imageDoc struct {
	OS      string `json:"os"`
	Name    string `json:"name"`
	AMI     string `json:"ami"`
	Created string `json:"created"`
}

// Render writes the result to w in the given shape and format. Rendering
// never fails for a valid result; the returned error only surfaces writer
// failures.
func Render(w io.Writer, result *ami.Result, shape Shape, format Format) error {
	switch shape {
	case ShapeJustID:
		return renderJustID(w, result)
	case ShapeSmokeTest:
		return renderSmokeTest(w, result)
	default:
		if format == FormatYAML {
			return renderYAML(w, result)
		}
		return renderTable(w, result)
	}
}

// renderJustID prints one identifier per line. A single selected image is
// printed without a trailing newline so shell capture gets the bare value.
func renderJustID(w io.Writer, result *ami.Result) error {
	if len(result.Images) == 1 {
		_, err := fmt.Fprint(w, result.Images[0].ID)
		return err
	}
	for _, img := range result.Images {
		if _, err := fmt.Fprintln(w, img.ID); err != nil {
			return err
		}
	}
	return nil
}

// renderSmokeTest emits launch arguments consumable by the smoke-test
// scripts. Callers guarantee singleton semantics before choosing this shape.
func renderSmokeTest(w io.Writer, result *ami.Result) error {
	img := result.Images[0]
	_, err := fmt.Fprintf(w, "--image-id %q --instance-type %q",
		img.ID, img.Arch.InstanceGroup()+".medium")
	return err
}

func renderTable(w io.Writer, result *ami.Result) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header("OS", "Name", "AMI", "Created")
	for _, img := range result.Images {
		if err := table.Append([]string{
			img.Family.DisplayName(),
			img.Name,
			img.ID,
			img.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func renderYAML(w io.Writer, result *ami.Result) error {
	docs := make([]imageDoc, 0, len(result.Images))
	for _, img := range result.Images {
		docs = append(docs, imageDoc{
			OS:      string(img.Family),
			Name:    img.Name,
			AMI:     img.ID,
			Created: img.CreatedAt.Format(time.RFC3339),
		})
	}
	data, err := yaml.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = w.Write(data)
	return err
}
