package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/estaterec/internal/version"
	estaterec "github.com/kailas-cloud/estaterec/pkg/sdk"
)

func (c *cli) registerCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := estaterec.ValidatePassword(password); err != nil {
				return err
			}
			cl, err := c.client()
			if err != nil {
				return err
			}
			if err := cl.Register(cmd.Context(), args[0], password); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "registered %s\n", args[0])
			return err
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Open a session and store its token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			s, err := cl.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := c.saveToken(s.Token); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "logged in as %s (expires %s)\n", s.Username, s.ExpiresAt.Format("2006-01-02 15:04"))
			return err
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			if err := cl.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := c.clearToken(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, "logged out")
			return err
		},
	}
}

func (c *cli) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Replace all listings with a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			cl, err := c.client()
			if err != nil {
				return err
			}
			n, err := cl.Upload(cmd.Context(), f, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "uploaded %d properties\n", n)
			return err
		},
	}
}

func (c *cli) recommendCmd() *cobra.Command {
	var p estaterec.Profile
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "List listings matching a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			props, err := cl.Recommend(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.printJSON(props)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&p.Budget, "budget", 0, "maximum price")
	f.Float64Var(&p.MinBedrooms, "min-bedrooms", 0, "minimum bedrooms")
	f.Float64Var(&p.MinBathrooms, "min-bathrooms", 0, "minimum bathrooms")
	f.Float64Var(&p.MinSqft, "min-area", 0, "minimum floor area")
	f.Float64Var(&p.MaxCommute, "max-commute", 0, "maximum commute in minutes")
	f.Float64Var(&p.MaxDistanceTrainStation, "max-train", 0, "maximum distance to a train station (km)")
	f.Float64Var(&p.MaxDistanceGrocery, "max-grocery", 0, "maximum distance to a grocery store (km)")
	f.Float64Var(&p.MinSchoolRating, "min-school", 0, "minimum school rating")
	f.StringVar(&p.PropertyType, "type", "", "property type (informational)")
	f.BoolVar(&p.ExcludeLiked, "exclude-liked", false, "omit liked listings that do not match")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func (c *cli) feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <property_id> <like|dislike>",
		Short: "Label a listing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("property_id must be a positive integer: %w", err)
			}
			cl, err := c.client()
			if err != nil {
				return err
			}
			if err := cl.SubmitFeedback(cmd.Context(), uint(id), estaterec.Label(args[1])); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "property %d: %s\n", id, args[1])
			return err
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			fb, err := cl.ListFeedback(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(fb)
		},
	})
	return cmd
}

func (c *cli) propertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List every listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			props, err := cl.ListProperties(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(props)
		},
	}
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cl, err := c.client()
			if err != nil {
				return err
			}
			h, err := cl.Health(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(h)
		},
	}
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(out, "estatectl", version.String())
			return err
		},
	}
}
