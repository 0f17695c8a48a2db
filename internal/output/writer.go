package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// WriteResults serializes the final snapshot, one file per proxy type,
// named <type>.<format> inside dir. Types with no recorded results are
// skipped. Supported formats: txt (working host:port lines), csv, json.
func WriteResults(dir, format string, snapshot map[model.ProxyType][]model.ProbeResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for typ, results := range snapshot {
		if len(results) == 0 {
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s.%s", typ, format))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}

		switch format {
		case "txt":
			err = writeText(f, results)
		case "csv":
			err = writeCSV(f, results)
		case "json":
			err = writeJSON(f, results)
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeText emits one host:port line per working proxy, the format the
// result files are most commonly consumed in.
func writeText(w io.Writer, results []model.ProbeResult) error {
	for _, r := range results {
		if !r.Working() {
			continue
		}
		if _, err := fmt.Fprintln(w, r.Endpoint.Addr()); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []model.ProbeResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results []model.ProbeResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"host",
		"port",
		"type",
		"working",
		"latency_ms",
		"status_code",
		"exit_ip",
		"anonymity",
		"country",
		"region",
		"city",
		"error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		var country, region, city string
		if r.Location != nil {
			country = r.Location.Country
			region = r.Location.Region
			city = r.Location.City
		}

		row := []string{
			r.Endpoint.Host,
			strconv.Itoa(r.Endpoint.Port),
			string(r.Endpoint.Type),
			boolToYN(r.Working()),
			strconv.FormatInt(r.Latency.Milliseconds(), 10),
			strconv.Itoa(r.StatusCode),
			r.ExitIP,
			r.Anonymity,
			country,
			region,
			city,
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

// PrintResultsTable prints a human-readable table of per-proxy results.
func PrintResultsTable(w io.Writer, snapshot map[model.ProxyType][]model.ProbeResult) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "IP:PORT\tTYPE\tWORKING\tLAT(ms)\tANONYMITY\tCOUNTRY\tCITY\tERROR")

	for _, typ := range model.AllProxyTypes {
		for _, r := range snapshot[typ] {
			lat := "-"
			if r.Latency > 0 {
				lat = strconv.FormatInt(r.Latency.Milliseconds(), 10)
			}

			var country, city string
			if r.Location != nil {
				country = r.Location.Country
				city = r.Location.City
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Endpoint.Addr(),
				typ,
				boolToYN(r.Working()),
				lat,
				dashIfEmpty(r.Anonymity),
				dashIfEmpty(country),
				dashIfEmpty(city),
				dashIfEmpty(r.Error),
			)
		}
	}

	tw.Flush()
}

// PrintSummary prints the aggregated run stats.
func PrintSummary(w io.Writer, sum model.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	for _, typ := range model.AllProxyTypes {
		st, ok := sum.PerType[typ]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-8s checked: %-6d working: %d\n", typ, st.Checked, st.Working)
	}
	fmt.Fprintf(w, "  Total checked:  %d\n", sum.TotalChecked)
	fmt.Fprintf(w, "  Total working:  %d\n", sum.TotalWorking)
	fmt.Fprintf(w, "  Status:         %s\n", sum.Status)
	fmt.Fprintf(w, "  Elapsed:        %.2f s\n", sum.Elapsed.Seconds())
}

// AppendHistory appends one run-history line (counts + elapsed) to path.
// Called once per finished run with the aggregator's summary as sole input.
func AppendHistory(path string, sum model.Summary) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s checked=%d working=%d elapsed=%.2fs status=%s\n",
		time.Now().Format(time.RFC3339),
		sum.TotalChecked,
		sum.TotalWorking,
		sum.Elapsed.Seconds(),
		sum.Status,
	)
	return err
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
