package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "wallkeepctl",
		Short: "CLI client for the wallkeep catalog REST API",
	}
)

func newAPIClient() *resty.Client {
	return resty.New().SetBaseURL(apiFlag).SetTimeout(30 * time.Second)
}

func printJSON(body []byte) error {
	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return nil
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Wallkeep service base URL")

	collectionsCmd := &cobra.Command{
		Use:   "collections",
		Short: "List the effective wallpaper collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient().R().Get("/api/collections")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("service returned %s", resp.Status())
			}
			return printJSON(resp.Body())
		},
	}
	rootCmd.AddCommand(collectionsCmd)

	currentCmd := &cobra.Command{
		Use:   "current",
		Short: "Show the current wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient().R().Get("/api/wallpaper")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("service returned %s", resp.Status())
			}
			return printJSON(resp.Body())
		},
	}
	rootCmd.AddCommand(currentCmd)

	setCmd := &cobra.Command{
		Use:   "set <wallpaperId>",
		Short: "Select a wallpaper by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient().R().
				SetHeader("Content-Type", "application/json").
				SetBody(map[string]string{"wallpaperId": args[0]}).
				Put("/api/wallpaper")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("service returned %s", resp.Status())
			}
			return printJSON(resp.Body())
		},
	}
	rootCmd.AddCommand(setCmd)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger a catalog update check",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient().R().Post("/api/sync")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("service returned %s", resp.Status())
			}
			return printJSON(resp.Body())
		},
	}
	rootCmd.AddCommand(syncCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
