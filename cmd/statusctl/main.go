package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func main() {
	api := os.Getenv("STATUS_API")
	if api == "" {
		api = "http://127.0.0.1:8080"
	}
	if err := printStatus(http.DefaultClient, strings.TrimSuffix(api, "/"), os.Getenv("API_KEY"), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error contacting status API:", err)
		os.Exit(1)
	}
}

func printStatus(c *http.Client, api, key string, w io.Writer) error {
	req, err := http.NewRequest(http.MethodGet, api+"/api/targets", nil)
	if err != nil {
		return err
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("API returned status: %s", resp.Status)
	}

	var rows []domain.TargetStatus
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tTARGET\tSTATE\tLAST CHECK\tLAST CHANGE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Kind, r.Identity, r.State, when(r.LastCheckedAt), when(r.LastChangeAt))
	}
	return tw.Flush()
}

func when(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(domain.TimestampLayout)
}
