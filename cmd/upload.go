package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"trestle/internal/config"
	"trestle/internal/formatting"
	"trestle/internal/junit"
	"trestle/internal/qtest"
	"trestle/internal/uploader"
	"trestle/pkg/logging"
)

const (
	defaultAPIURL = "https://apitryout.qtestnet.com"
	apiTokenEnv   = "QTEST_API_TOKEN"
)

// runOptions are the flags shared by the upload and watch commands.
type runOptions struct {
	configPath     string
	propertiesPath string
	apiURL         string
	apiToken       string
	quiet          bool
}

func newUploadCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "upload <results.xml>",
		Short: "Upload a JUnit results file to the test-management system",
		Long: `Parses a JUnit XML results file, resolves the module hierarchy for every
test case from the JSON config, and submits the assembled test logs.

Testsuite-level properties from the results file are available as
interpolation properties; values from --properties override them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runOnce(cmd.Context(), opts, args[0])
			if err != nil {
				return err
			}
			if !opts.quiet {
				formatting.RenderSummary(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the JSON config file (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&opts.propertiesPath, "properties", "p", "", "Path to a YAML file of interpolation properties")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", defaultAPIURL, "Base URL of the test-management API")
	cmd.Flags().StringVar(&opts.apiToken, "api-token", "", "API token (defaults to $"+apiTokenEnv+")")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress spinner and summary output")
}

// runOnce performs one complete upload: parse, resolve, assemble, submit.
func runOnce(ctx context.Context, opts *runOptions, resultsPath string) (*uploader.Report, error) {
	doc, err := junit.ParseFile(resultsPath)
	if err != nil {
		return nil, err
	}

	properties, err := gatherProperties(doc, opts.propertiesPath)
	if err != nil {
		return nil, err
	}

	resolver, err := config.Load(opts.configPath, properties)
	if err != nil {
		return nil, err
	}

	client, err := newAPIClient(resolver, opts)
	if err != nil {
		return nil, err
	}

	u := uploader.New(resolver, client)

	if opts.quiet {
		return u.Run(ctx, doc)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Submitting test logs..."
	s.Start()
	defer s.Stop()

	report, err := u.Run(ctx, doc)
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("Failed to submit test logs") + "\n"
		return nil, err
	}
	return report, nil
}

// gatherProperties merges testsuite-level properties with the optional
// properties file, the file taking precedence.
func gatherProperties(doc *junit.Document, propertiesPath string) (map[string]string, error) {
	properties := doc.SuiteProperties()
	if propertiesPath == "" {
		return properties, nil
	}

	fileProperties, err := config.LoadProperties(propertiesPath)
	if err != nil {
		return nil, err
	}
	return config.MergeProperties(properties, fileProperties), nil
}

func newAPIClient(resolver *config.Resolver, opts *runOptions) (*qtest.Client, error) {
	projectID, err := resolver.GetInt("project_id")
	if err != nil {
		return nil, err
	}

	token := opts.apiToken
	if token == "" {
		token = os.Getenv(apiTokenEnv)
	}
	if token == "" {
		return nil, fmt.Errorf("no API token: pass --api-token or set $%s", apiTokenEnv)
	}

	return qtest.NewClient(opts.apiURL, token, projectID, qtest.WithLogger(logging.Logger())), nil
}
