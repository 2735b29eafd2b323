package tracker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
	"github.com/warp/solarwork/worklog"
)

// =============================================================================
// SNAPSHOT FILES - plain or xz-compressed JSON
// =============================================================================

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// WriteSnapshot writes snap as indented JSON, xz-compressed when compress
// is set.
func WriteSnapshot(w io.Writer, snap worklog.Snapshot, compress bool) error {
	if !compress {
		return encodeSnapshot(w, snap)
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if err := encodeSnapshot(xw, snap); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}

func encodeSnapshot(w io.Writer, snap worklog.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot, detecting xz compression from the magic
// bytes. Malformed input returns an error wrapping worklog.ErrImportFormat.
func ReadSnapshot(r io.Reader) (worklog.Snapshot, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xzMagic))

	var src io.Reader = br
	if bytes.Equal(head, xzMagic) {
		xr, err := xz.NewReader(br)
		if err != nil {
			return worklog.Snapshot{}, fmt.Errorf("%w: %v", worklog.ErrImportFormat, err)
		}
		src = xr
	}

	var snap worklog.Snapshot
	if err := json.NewDecoder(src).Decode(&snap); err != nil {
		return worklog.Snapshot{}, fmt.Errorf("%w: %v", worklog.ErrImportFormat, err)
	}
	return snap, nil
}
