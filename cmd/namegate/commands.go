package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/creamcroissant/namegate/internal/auth/token"
	"github.com/creamcroissant/namegate/internal/bootstrap"
	"github.com/creamcroissant/namegate/internal/config"
	"github.com/creamcroissant/namegate/internal/migrations"
)

func init() {
	// Migrate
	var migrateStatus bool
	var migrateRollback bool
	var migrateCmd = &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Database migration management",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := bootstrap.OpenSQLite(cfg.DB.Path)
			if err != nil {
				return err
			}
			fmt.Printf("Using DB path: %s\n", cfg.DB.Path)
			defer db.Close()

			if migrateStatus {
				return migrations.Status(db)
			}
			if migrateRollback {
				return migrations.Down(db)
			}

			action := "up"
			if len(args) > 0 {
				action = args[0]
			}

			switch action {
			case "up":
				return migrations.Up(db)
			case "down":
				return migrations.Down(db)
			case "status":
				return migrations.Status(db)
			default:
				return fmt.Errorf("unknown migrate action %q", action)
			}
		},
	}
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Show migration status")
	migrateCmd.Flags().BoolVar(&migrateRollback, "rollback", false, "Rollback the last migration")
	rootCmd.AddCommand(migrateCmd)

	// Policy
	var policyFormat string
	var policyCmd = &cobra.Command{
		Use:   "policy",
		Short: "Print the effective acceptance policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runPolicyShow(cfg, policyFormat)
		},
	}
	policyCmd.Flags().StringVar(&policyFormat, "format", "text", "Output format: text or yaml")
	rootCmd.AddCommand(policyCmd)

	// Token
	var tokenSubject string
	var tokenTTL time.Duration
	var tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the logs API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenSubject == "" {
				return fmt.Errorf("subject is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runTokenIssue(cfg, tokenSubject, tokenTTL)
		},
	}
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject (operator name)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to auth.token_ttl)")
	rootCmd.AddCommand(tokenCmd)

	// Backup
	var backupOutput string
	var backupCompress bool
	var backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Backup the audit database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runBackup(cfg, backupOutput, backupCompress)
		},
	}
	backupCmd.Flags().StringVar(&backupOutput, "output", "", "Output file path")
	backupCmd.Flags().BoolVar(&backupCompress, "compress", false, "Compress output with gzip")
	rootCmd.AddCommand(backupCmd)

	// Version
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Namegate %s\n", Version)
			fmt.Printf("Commit: %s\n", Commit)
			fmt.Printf("Build Time: %s\n", BuildTime)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

func runPolicyShow(cfg *config.Config, format string) error {
	policy := cfg.Policy.Rules()

	switch format {
	case "yaml":
		out, err := yaml.Marshal(struct {
			MinLength    int      `yaml:"min_length"`
			MaxLength    int      `yaml:"max_length"`
			RequireDigit bool     `yaml:"require_digit"`
			Reserved     []string `yaml:"reserved,omitempty"`
		}{
			MinLength:    policy.MinLength,
			MaxLength:    policy.MaxLength,
			RequireDigit: policy.RequireDigit,
			Reserved:     policy.Reserved,
		})
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil

	case "text":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintf(w, "Min length\t%d\n", policy.MinLength)
		fmt.Fprintf(w, "Max length\t%d\n", policy.MaxLength)
		fmt.Fprintf(w, "Require digit\t%v\n", policy.RequireDigit)
		fmt.Fprintf(w, "Reserved names\t%d\n", len(policy.Reserved))
		return w.Flush()

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runTokenIssue(cfg *config.Config, subject string, ttl time.Duration) error {
	if cfg.Auth.SigningKey == "change-me" {
		return fmt.Errorf("auth.signing_key must be changed from default value")
	}

	manager, err := token.NewManager(token.Options{
		SigningKey: []byte(cfg.Auth.SigningKey),
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		TTL:        cfg.Auth.TokenTTL,
		Leeway:     cfg.Auth.Leeway,
	})
	if err != nil {
		return err
	}

	raw, claims, err := manager.Issue(token.IssueInput{
		Subject:   subject,
		TokenType: "operator",
		TTL:       ttl,
	})
	if err != nil {
		return err
	}

	fmt.Println(raw)
	fmt.Fprintf(os.Stderr, "Expires: %s\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	return nil
}

func runBackup(cfg *config.Config, output string, compress bool) error {
	target := output
	if target == "" {
		backupDir := "data/backups"
		if err := os.MkdirAll(backupDir, 0755); err != nil {
			return fmt.Errorf("create backup dir: %w", err)
		}
		ext := ".db"
		if compress {
			ext += ".gz"
		}
		filename := fmt.Sprintf("namegate_%s%s", time.Now().Format("20060102_150405"), ext)
		target = filepath.Join(backupDir, filename)
	}

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tempFile := target
	if compress {
		if strings.HasSuffix(target, ".gz") {
			tempFile = strings.TrimSuffix(target, ".gz")
		} else {
			tempFile = target + ".tmp"
		}
	}

	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", tempFile)); err != nil {
		return fmt.Errorf("sqlite vacuum into: %w", err)
	}

	if compress {
		if err := compressFile(tempFile, target); err != nil {
			os.Remove(tempFile)
			return err
		}
		os.Remove(tempFile)
	}

	fmt.Printf("Backup created at %s\n", target)
	return nil
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	defer gw.Close()

	if _, err := io.Copy(gw, in); err != nil {
		return err
	}
	return nil
}
