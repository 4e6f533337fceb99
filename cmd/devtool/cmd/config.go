package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"routeplug/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig(config.NewViper())
			if err != nil {
				return err
			}
			cfg.DBPassword = mask(cfg.DBPassword)
			cfg.RedisPassword = mask(cfg.RedisPassword)
			for i := range cfg.AuthTokens {
				cfg.AuthTokens[i] = mask(cfg.AuthTokens[i])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
