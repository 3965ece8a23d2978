package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	estaterec "github.com/kailas-cloud/estaterec/pkg/sdk"
)

const (
	defaultServer = "http://localhost:10000"
	envPrefix     = "ESTATECTL"
)

// cli carries settings shared by every subcommand.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "estatectl",
		Short:         "estaterec command-line client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("server", defaultServer, "estaterec server URL")
	root.PersistentFlags().String("token-file", defaultTokenFile(), "file holding the session token")
	root.PersistentFlags().Duration("timeout", 0, "request timeout (0 for the client default)")

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	_ = c.v.BindPFlags(root.PersistentFlags())

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.uploadCmd(),
		c.recommendCmd(),
		c.feedbackCmd(),
		c.propertiesCmd(),
		c.healthCmd(),
		versionCmd(out),
	)
	return root
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".estatectl-session"
	}
	return filepath.Join(home, ".estatectl", "session")
}

// client builds an SDK client, authenticated with the stored token when present.
func (c *cli) client() (*estaterec.Client, error) {
	var opts []estaterec.Option
	if d := c.v.GetDuration("timeout"); d > 0 {
		opts = append(opts, estaterec.WithTimeout(d))
	}
	token, err := c.loadToken()
	if err != nil {
		return nil, err
	}
	if token != "" {
		opts = append(opts, estaterec.WithToken(token))
	}
	return estaterec.New(c.v.GetString("server"), opts...)
}

func (c *cli) loadToken() (string, error) {
	b, err := os.ReadFile(c.v.GetString("token-file"))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (c *cli) saveToken(token string) error {
	path := c.v.GetString("token-file")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (c *cli) clearToken() error {
	if err := os.Remove(c.v.GetString("token-file")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
