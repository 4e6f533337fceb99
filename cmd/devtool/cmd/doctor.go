package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"routeplug/internal/envutil"
)

func newDoctorCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check a running server answers /health",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimRight(addr, "/") + "/health"
			fmt.Fprintln(cmd.OutOrStdout(), "Checking:", url)

			client := &http.Client{Timeout: timeout}
			resp, err := client.Get(url)
			if err != nil {
				return fmt.Errorf("server not reachable at %s: %w", addr, err)
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK: server healthy.")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envutil.String(os.Getenv, "ROUTEPLUG_ADDR", "http://127.0.0.1:8080"), "Base URL of the running server")
	cmd.Flags().DurationVar(&timeout, "timeout", envutil.Duration(os.Getenv, "ROUTEPLUG_DOCTOR_TIMEOUT", 3*time.Second), "Request timeout")
	return cmd
}
