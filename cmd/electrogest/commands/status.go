package commands

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/juniorxam/Gestaodevendas/cmd/electrogest/utils"
	"github.com/juniorxam/Gestaodevendas/internal/config"
	"github.com/juniorxam/Gestaodevendas/internal/version"
	"github.com/spf13/cobra"
)

var statusAddr string

// healthResponse mirrors the daemon's health payload.
type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the ElectroGest daemon is answering",
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.SetupLogging(flags.LogLevel)

		client := resty.New().
			SetTimeout(5*time.Second).
			SetBaseURL(fmt.Sprintf("http://%s/api/v1", statusAddr)).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "electrogest/"+version.LauncherVersion).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil
			})

		var health healthResponse
		resp, err := client.R().SetResult(&health).Get("/health")
		if err != nil {
			return fmt.Errorf("daemon not reachable at %s: %w", statusAddr, err)
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("daemon answered %d at %s", resp.StatusCode(), statusAddr)
		}

		fmt.Printf("Daemon %s at %s (version %s, up %s)\n",
			health.Status, statusAddr, health.Version, health.Uptime)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusAddr, "addr",
		fmt.Sprintf("%s:%d", config.DefaultBindAddr, config.DefaultBindPort),
		"Daemon API address (host:port)")
}
