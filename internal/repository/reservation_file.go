package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iliyamo/seat-suggest/internal/model"
)

// FileReservationSource reads booked seats from a text file with one line
// per seat. The first whitespace separated field is the seat identifier
// ("A3"); anything after it is ignored, as are blank lines.
type FileReservationSource struct {
	path string
}

func NewFileReservationSource(path string) *FileReservationSource {
	return &FileReservationSource{path: path}
}

// Occupied parses the whole file. A missing file means nothing is booked.
func (s *FileReservationSource) Occupied(ctx context.Context) ([]model.SeatRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open reservations: %w", err)
	}
	defer f.Close()

	var out []model.SeatRef
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		ref, err := model.ParseSeatRef(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		out = append(out, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read reservations: %w", err)
	}
	return out, nil
}
