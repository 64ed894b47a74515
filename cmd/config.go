package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/able2/able2-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Able2 configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("server_url: %s\n", cfg.ServerURL)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("max_upload_size: %s\n", cfg.MaxUploadSize)
		fmt.Printf("strict_pdf_check: %t\n", cfg.StrictPDFCheck)
		fmt.Printf("prune_delay_sec: %d\n", cfg.PruneDelaySec)
		fmt.Printf("notify_ttl_sec: %d\n", cfg.NotifyTTLSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "server_url":
			cfg.ServerURL = val
		case "http_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid http_timeout_sec: %s", val)
			}
			cfg.HTTPTimeoutSec = n
		case "max_upload_size":
			cfg.MaxUploadSize = val
			if _, err := cfg.MaxUploadBytes(); err != nil {
				return err
			}
		case "strict_pdf_check":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid strict_pdf_check: %s", val)
			}
			cfg.StrictPDFCheck = b
		case "prune_delay_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid prune_delay_sec: %s", val)
			}
			cfg.PruneDelaySec = n
		case "notify_ttl_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid notify_ttl_sec: %s", val)
			}
			cfg.NotifyTTLSec = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Config saved")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
