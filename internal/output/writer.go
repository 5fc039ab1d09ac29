// =============================================================================
// Basket Enricher - Output Writer
// =============================================================================
//
// This module serializes enriched records as JSON Lines: one self-contained
// JSON object per line, in emission order.
//
// OUTPUT LAYOUT:
//   <output_location>/            created if absent
//     output.json                 one EnrichedRecord per line
//
// Keys are always emitted in the same order (customer_id, loyalty_score,
// product_id, product_category, purchase_count), so identical input always
// produces byte-identical output. The file is not written atomically; a
// crash mid-write leaves a truncated file.
//
// =============================================================================

package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/basket-enricher/internal/types"
)

// DefaultFileName is the name of the output file inside the output directory.
const DefaultFileName = "output.json"

// Writer writes enriched records to a file in an output directory.
type Writer struct {
	// Dir is the output directory. It is created if absent.
	Dir string

	// FileName is the output file name. Default: "output.json"
	FileName string
}

// NewWriter creates a Writer for dir. An empty fileName selects DefaultFileName.
func NewWriter(dir, fileName string) *Writer {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Writer{Dir: dir, FileName: fileName}
}

// Path returns the full path of the output file.
func (w *Writer) Path() string {
	return filepath.Join(w.Dir, w.FileName)
}

// Write creates the output directory and writes every record, replacing any
// previous output file.
//
// RETURNS:
//   - The path to the output file.
//   - An error if the directory or file cannot be written.
func (w *Writer) Write(records []types.EnrichedRecord) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	path := w.Path()
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	buffered := bufio.NewWriter(file)
	if err := Encode(buffered, records); err != nil {
		file.Close()
		return "", err
	}

	if err := buffered.Flush(); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to flush output file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}

	return path, nil
}

// Encode writes records to w as JSON Lines.
func Encode(w io.Writer, records []types.EnrichedRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	for i := range records {
		if err := encoder.Encode(&records[i]); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i+1, err)
		}
	}

	return nil
}
