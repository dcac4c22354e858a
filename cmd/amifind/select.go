package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/amifind/internal/catalog"
	"github.com/lucas-albers-lz4/amifind/pkg/ami"
	"github.com/lucas-albers-lz4/amifind/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/amifind/pkg/log"
	"github.com/lucas-albers-lz4/amifind/pkg/report"
)

// defaultRegion is used when neither the flag, the environment, nor the
// config file names a region.
const defaultRegion = "us-east-2"

// imageSource abstracts the catalog client so tests can substitute a fake.
type imageSource interface {
	Images(ctx context.Context, family ami.Family) ([]ami.RawImage, error)
}

// Factory hooks, replaceable in tests.
var (
	newImageSource = func(ctx context.Context, region string) (imageSource, error) {
		return catalog.NewClient(ctx, region)
	}
	validateEnv = catalog.ValidateEnv
)

// selectOptions carries the fully resolved parameters of one select
// invocation.
type selectOptions struct {
	family          ami.Family
	arch            ami.Arch
	region          string
	mode            ami.Mode
	shape           report.Shape
	format          report.Format
	includeVariants bool
	outputFile      string
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Resolve the most recent AMI matching the given conditions",
		Long: `Resolve the single most recent AMI for the requested operating-system
family and architecture in one region. By default the full record is printed
as a table; use --just-ami for bare identifiers, --all to list every match,
or --singleton to fail loudly when more than one image shares the top rank.`,
		Args: cobra.NoArgs,
		RunE: runSelect,
	}

	cmd.Flags().StringP("operating-system", "o", "", "operating system family (amazon, debian, ubuntu, windows)")
	cmd.Flags().StringP("architecture", "a", "amd64", "CPU architecture (amd64, arm64)")
	cmd.Flags().StringP("region", "r", "", "AWS region (default \"us-east-2\", or the configured region)")
	cmd.Flags().BoolP("singleton", "1", false, "exit with an error if more than one AMI shares the top rank")
	cmd.Flags().BoolP("just-ami", "j", false, "output just the selected AMI identifier(s)")
	cmd.Flags().BoolP("smoke-test", "s", false, "output launch arguments used in the smoke tests (implies --singleton, requires --architecture)")
	cmd.Flags().Bool("all", false, "list every matching AMI, most recent first")
	cmd.Flags().Bool("include-variants", false, "include non-English and non-Base Windows variants")
	cmd.Flags().String("output-format", "text", "output format for the full record (text, yaml)")
	cmd.Flags().String("output-file", "", "write output to this file instead of stdout")

	if err := cmd.MarkFlagRequired("operating-system"); err != nil {
		log.Error("Failed to mark operating-system flag required", "error", err)
	}
	cmd.MarkFlagsMutuallyExclusive("just-ami", "smoke-test")
	cmd.MarkFlagsMutuallyExclusive("all", "singleton")
	cmd.MarkFlagsMutuallyExclusive("all", "smoke-test")

	return cmd
}

// getSelectOptions resolves flags and configuration into selectOptions.
// Invalid enumerated values map to their documented exit codes here so the
// run function stays a straight pipeline.
func getSelectOptions(flags *pflag.FlagSet) (*selectOptions, error) {
	opts := &selectOptions{}

	familyStr, err := flags.GetString("operating-system")
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to get operating-system flag: %w", err),
		}
	}
	opts.family, err = ami.ParseFamily(familyStr)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInvalidFamily, Err: err}
	}

	archStr, err := flags.GetString("architecture")
	if err != nil {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("failed to get architecture flag: %w", err),
		}
	}
	opts.arch, err = ami.ParseArch(archStr)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInvalidArchitecture, Err: err}
	}

	opts.region, _ = flags.GetString("region")
	if opts.region == "" {
		opts.region = viper.GetString("region")
	}
	if opts.region == "" {
		opts.region = defaultRegion
	}

	singleton, _ := flags.GetBool("singleton")
	justAmi, _ := flags.GetBool("just-ami")
	smokeTest, _ := flags.GetBool("smoke-test")
	all, _ := flags.GetBool("all")

	// Launch arguments embed an instance type derived from the
	// architecture, so the flag default is not enough here.
	if smokeTest && !flags.Changed("architecture") {
		return nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("--smoke-test requires an explicit --architecture"),
		}
	}

	switch {
	case all:
		opts.mode = ami.ModeAll
	case singleton || smokeTest:
		opts.mode = ami.ModeSingleton
	default:
		opts.mode = ami.ModeFirst
	}

	switch {
	case smokeTest:
		opts.shape = report.ShapeSmokeTest
	case justAmi:
		opts.shape = report.ShapeJustID
	default:
		opts.shape = report.ShapeFull
	}

	formatStr, _ := flags.GetString("output-format")
	opts.format, err = report.ParseFormat(formatStr)
	if err != nil {
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitInputConfigurationError, Err: err}
	}

	opts.includeVariants, _ = flags.GetBool("include-variants")
	opts.outputFile, _ = flags.GetString("output-file")

	return opts, nil
}

func runSelect(cmd *cobra.Command, _ []string) error {
	opts, err := getSelectOptions(cmd.Flags())
	if err != nil {
		return err
	}

	if err := validateEnv(); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitCredentialsError, Err: err}
	}

	ctx := cmd.Context()
	source, err := newImageSource(ctx, opts.region)
	if err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInputConfigurationError, Err: err}
	}

	raws, err := source.Images(ctx, opts.family)
	if err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitCatalogQueryFailed, Err: err}
	}

	images, skipped := ami.NormalizeAll(raws)
	if len(images) == 0 && skipped > 0 {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitNormalizationError,
			Err:  fmt.Errorf("all %d catalog records for %s failed to normalize", skipped, opts.family),
		}
	}

	result, err := ami.Select(images, ami.Query{
		Family:          opts.family,
		Arch:            opts.arch,
		Region:          opts.region,
		Mode:            opts.mode,
		IncludeVariants: opts.includeVariants,
	})
	if err != nil {
		var ambiguous *ami.AmbiguousError
		switch {
		case errors.Is(err, ami.ErrNoMatch):
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitNoMatch, Err: err}
		case errors.As(err, &ambiguous):
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitAmbiguousSelection, Err: err}
		default:
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: err}
		}
	}

	out, closeOutput, err := openOutput(cmd, opts.outputFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	if err := report.Render(out, result, opts.shape, opts.format); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: fmt.Errorf("render result: %w", err)}
	}
	return nil
}

// openOutput returns the writer selection results go to: the command's
// stdout, or the --output-file path opened through AppFs.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := AppFs.Create(path)
	if err != nil {
		return nil, nil, &exitcodes.ExitCodeError{
			Code: exitcodes.ExitIOError,
			Err:  fmt.Errorf("create output file %s: %w", path, err),
		}
	}
	return f, func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn("Failed to close output file", "path", path, "error", cerr)
		}
	}, nil
}
