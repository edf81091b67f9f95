package recorder

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yanun0323/errors"

	"main/pkg/exception"
)

var statsFields = []string{
	"timestamp", "outcome", "duration_ms", "num_place", "num_cancel", "num_refresh",
	"side", "coin", "order_size", "tick_size", "tolerance_ticks", "max_age_ms",
	"max_chase_ticks", "run_name",
}

// Stats is one completed chase run, appended as a CSV row for offline
// analysis of chase efficiency.
type Stats struct {
	Outcome        string
	DurationMs     int64
	NumPlace       uint64
	NumCancel      uint64
	Side           string
	Coin           string
	OrderSize      float64
	TickSize       float64
	ToleranceTicks float64
	MaxAgeMs       int64
	MaxChaseTicks  float64
	RunName        string
}

// NumRefresh is the number of re-prices: every placement after the first.
func (s Stats) NumRefresh() uint64 {
	if s.NumPlace == 0 {
		return 0
	}
	return s.NumPlace - 1
}

// Appender writes chase stats rows to a CSV file, creating the header when
// the file is missing or malformed.
type Appender struct {
	path string
}

// NewAppender builds an appender for the given path.
func NewAppender(path string) (*Appender, error) {
	if path == "" {
		return nil, exception.ErrInvalidArgument
	}
	return &Appender{path: path}, nil
}

// Append writes one stats row, initializing the file on first use.
func (a *Appender) Append(s Stats) error {
	if a == nil {
		return exception.ErrNilInstance
	}
	if err := a.ensureHeader(); err != nil {
		return err
	}

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open stats file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.row()); err != nil {
		return errors.Wrap(err, "write stats row")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush stats row")
}

func (s Stats) row() []string {
	ts := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	return []string{
		ts,
		s.Outcome,
		strconv.FormatInt(s.DurationMs, 10),
		strconv.FormatUint(s.NumPlace, 10),
		strconv.FormatUint(s.NumCancel, 10),
		strconv.FormatUint(s.NumRefresh(), 10),
		s.Side,
		s.Coin,
		strconv.FormatFloat(s.OrderSize, 'f', -1, 64),
		strconv.FormatFloat(s.TickSize, 'f', -1, 64),
		strconv.FormatFloat(s.ToleranceTicks, 'f', -1, 64),
		strconv.FormatInt(s.MaxAgeMs, 10),
		strconv.FormatFloat(s.MaxChaseTicks, 'f', -1, 64),
		s.RunName,
	}
}

// ensureHeader rewrites the file with only a header when it is missing or
// its first line does not look like the expected header.
func (a *Appender) ensureHeader() error {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "read stats file")
		}
		return a.writeHeader()
	}
	first, _, _ := strings.Cut(string(data), "\n")
	if !strings.Contains(first, "timestamp") {
		return a.writeHeader()
	}
	return nil
}

func (a *Appender) writeHeader() error {
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "create stats file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsFields); err != nil {
		return errors.Wrap(err, "write stats header")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush stats header")
}
