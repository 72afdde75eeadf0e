package feed

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamespfennell/gtfs"

	"serviceanalyst.onebusaway.org/internal/logging"
)

// Options controls how Open reads a feed.
type Options struct {
	// Lenient parses zip feeds with the jamespfennell/gtfs parser, which skips malformed rows instead
	// of failing the load.
	Lenient    bool
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Open loads a feed from a directory, a local zip file, or an http(s) URL pointing at a zip file.
func Open(ctx context.Context, source string, opts Options) (*Feed, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	isURL := strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")

	if !isURL {
		info, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("error reading GTFS source: %w", err)
		}
		if info.IsDir() {
			if opts.Lenient {
				return nil, fmt.Errorf("lenient parsing requires a zip feed, got directory %s", source)
			}
			f, err := Load(os.DirFS(source), filepath.Base(source))
			if err != nil {
				return nil, err
			}
			logLoaded(logger, f)
			return f, nil
		}
	}

	b, err := rawFeedData(ctx, source, isURL, opts.HTTPClient, logger)
	if err != nil {
		return nil, err
	}
	name := feedName(source)

	var f *Feed
	if opts.Lenient {
		staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
		if err != nil {
			return nil, fmt.Errorf("error parsing GTFS data: %w", err)
		}
		f = FromStatic(name, staticData)
	} else {
		reader, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
		if err != nil {
			return nil, fmt.Errorf("error opening GTFS zip: %w", err)
		}
		f, err = Load(reader, name)
		if err != nil {
			return nil, err
		}
	}
	logLoaded(logger, f)
	return f, nil
}

func rawFeedData(ctx context.Context, source string, isURL bool, client *http.Client, logger *slog.Logger) ([]byte, error) {
	if !isURL {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local GTFS file: %w", err)
		}
		return b, nil
	}

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error building GTFS request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "gtfs_download_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading GTFS data: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	return b, nil
}

// Load reads every collection from fsys. Absent optional files become empty collections; absent
// required files fail with ErrMissingCollection and schema violations with *SchemaError.
func Load(fsys fs.FS, name string) (*Feed, error) {
	f := &Feed{Name: name}
	for _, table := range []struct {
		File     string
		Optional bool
		Action   func(r io.Reader) error
	}{
		{
			File: "calendar.txt",
			Action: func(r io.Reader) (err error) {
				f.Calendar, err = decodeCSV[CalendarEntry](r, "calendar.txt")
				return
			},
		},
		{
			File:     "calendar_dates.txt",
			Optional: true,
			Action: func(r io.Reader) (err error) {
				f.CalendarDates, err = decodeCSV[CalendarDate](r, "calendar_dates.txt")
				return
			},
		},
		{
			File: "routes.txt",
			Action: func(r io.Reader) (err error) {
				f.Routes, err = decodeCSV[Route](r, "routes.txt")
				return
			},
		},
		{
			File: "trips.txt",
			Action: func(r io.Reader) (err error) {
				f.Trips, err = decodeCSV[Trip](r, "trips.txt")
				return
			},
		},
		{
			File: "stop_times.txt",
			Action: func(r io.Reader) (err error) {
				f.StopTimes, err = decodeCSV[StopTime](r, "stop_times.txt")
				return
			},
		},
		{
			File: "stops.txt",
			Action: func(r io.Reader) (err error) {
				f.Stops, err = decodeCSV[Stop](r, "stops.txt")
				return
			},
		},
		{
			File:     "shapes.txt",
			Optional: true,
			Action: func(r io.Reader) (err error) {
				f.Shapes, err = decodeCSV[ShapePoint](r, "shapes.txt")
				return
			},
		},
		{
			File:     "frequencies.txt",
			Optional: true,
			Action: func(r io.Reader) (err error) {
				f.Frequencies, err = decodeCSV[Frequency](r, "frequencies.txt")
				return
			},
		},
	} {
		file, err := fsys.Open(table.File)
		if errors.Is(err, fs.ErrNotExist) {
			if table.Optional {
				continue
			}
			return nil, fmt.Errorf("%w: no %q file in GTFS static feed", ErrMissingCollection, table.File)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %q: %w", table.File, err)
		}
		err = table.Action(file)
		closeErr := file.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to read %q: %w", table.File, closeErr)
		}
	}
	f.normalize()
	return f, nil
}

func feedName(source string) string {
	base := source
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if base == "" {
		return source
	}
	return base
}

func logLoaded(logger *slog.Logger, f *Feed) {
	logging.LogOperation(logger, "gtfs_feed_loaded",
		slog.String("feed", f.Name),
		slog.Int("calendar", len(f.Calendar)),
		slog.Int("calendar_dates", len(f.CalendarDates)),
		slog.Int("routes", len(f.Routes)),
		slog.Int("trips", len(f.Trips)),
		slog.Int("stop_times", len(f.StopTimes)),
		slog.Int("stops", len(f.Stops)),
		slog.Int("shape_points", len(f.Shapes)),
		slog.Int("frequencies", len(f.Frequencies)))
}
