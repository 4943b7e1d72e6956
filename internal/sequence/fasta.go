package sequence

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// ParseFASTA reads every record from r. Blank lines are skipped and symbol
// lines are upper-cased. Symbols before the first header are an error.
func ParseFASTA(r io.Reader) ([]*Sequence, error) {
	sequences := make([]*Sequence, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var currentID, currentDesc string
	var currentSymbols strings.Builder
	inRecord := false
	lineNum, headerLine := 0, 0

	flush := func() error {
		if !inRecord {
			return nil
		}
		seq, err := WithDescription(currentID, currentDesc, currentSymbols.String())
		if err != nil {
			return fmt.Errorf("line %d: %w", headerLine, err)
		}
		sequences = append(sequences, seq)
		currentSymbols.Reset()
		return nil
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			header := strings.TrimSpace(line[1:])
			currentID, currentDesc = header, ""
			if i := strings.IndexAny(header, " \t"); i >= 0 {
				currentID = header[:i]
				currentDesc = strings.TrimSpace(header[i+1:])
			}
			headerLine = lineNum
			inRecord = true
			continue
		}

		if !inRecord {
			return nil, &FormatError{Line: lineNum, Reason: "sequence data before first '>' header"}
		}
		currentSymbols.WriteString(Normalize(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading FASTA: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return sequences, nil
}

// ReadFASTA memory-maps a FASTA file and parses every record in it.
func ReadFASTA(filename string) ([]*Sequence, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}
	if info.Size() == 0 {
		return []*Sequence{}, nil
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", filename, err)
	}
	defer m.Unmap()

	return ParseFASTA(bytes.NewReader(m))
}

// WriteFASTA writes sequences to w, one record after the other.
func WriteFASTA(w io.Writer, sequences []*Sequence) error {
	for _, seq := range sequences {
		if _, err := io.WriteString(w, seq.ToFASTA()); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}
	return nil
}
