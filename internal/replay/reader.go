package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/annel0/aicup-bot/internal/record"
	"github.com/klauspost/compress/zstd"
)

const maxLineSize = 16 << 20

// Reader читает строки файла реплея. Сжатие определяется по сигнатуре zstd.
type Reader struct {
	file    io.Closer
	zr      *zstd.Decoder
	scanner *bufio.Scanner
	line    int
}

// Open открывает файл реплея
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("открытие реплея %s: %w", path, err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader читает из r. Close не закрывает r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	out := &Reader{}

	var src io.Reader = br
	head, err := br.Peek(len(zstdMagic))
	if err == nil && bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		out.zr = zr
		src = zr
	}

	out.scanner = bufio.NewScanner(src)
	out.scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return out, nil
}

// Next возвращает следующую строку или io.EOF
func (r *Reader) Next() (Entry, error) {
	for r.scanner.Scan() {
		r.line++
		data := bytes.TrimSpace(r.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return Entry{}, fmt.Errorf("строка %d: %w: %v", r.line, ErrCorruptFrame, err)
		}
		switch {
		case e.Kind == KindFrame && e.Frame != nil:
		case e.Kind == KindRecord && e.Record != nil:
		default:
			return Entry{}, fmt.Errorf("строка %d: %w: неизвестный тип %q", r.line, ErrCorruptFrame, e.Kind)
		}
		return e, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Entry{}, fmt.Errorf("строка %d: %w: %v", r.line+1, ErrCorruptFrame, err)
	}
	return Entry{}, io.EOF
}

// ReadAll читает файл до конца, разделяя кадры и решения
func (r *Reader) ReadAll() ([]Frame, []record.Record, error) {
	var (
		frames  []Frame
		records []record.Record
	)
	for {
		e, err := r.Next()
		if err == io.EOF {
			return frames, records, nil
		}
		if err != nil {
			return frames, records, err
		}
		if e.Frame != nil {
			frames = append(frames, *e.Frame)
		} else {
			records = append(records, *e.Record)
		}
	}
}

// Close освобождает декодер и закрывает файл, если он был открыт через Open
func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
