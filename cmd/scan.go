package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dashreel/dashreel/color"
	"github.com/dashreel/dashreel/icon"
	"github.com/dashreel/dashreel/log"
	"github.com/dashreel/dashreel/probe"
	"github.com/dashreel/dashreel/recent"
	"github.com/dashreel/dashreel/scan"
	"github.com/dashreel/dashreel/segment"
	"github.com/dashreel/dashreel/style"
	"github.com/dashreel/dashreel/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	rootCmd.AddCommand(scanCmd)

	addScanFlags(scanCmd.Flags())
	scanCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	scanCmd.Flags().StringP("filter", "f", "", "Fuzzy filter on file names and paths")
	scanCmd.Flags().Bool("schema", false, "Print the JSON schema of the output and exit")
	scanCmd.SetOut(os.Stdout)
}

// scanCmd lists the segments of a folder without playing them.
var scanCmd = &cobra.Command{
	Use:               "scan [folder]",
	Short:             "List the dashcam segments found in a folder",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeFolders,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect([]segment.Segment{})))
			return
		}

		root, err := resolveFolder(args)
		handleErr(err)

		segments, err := scanFolder(cmd.Context(), cmd.Flags(), root)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(segments))
			return
		}

		for _, s := range segments {
			duration := style.Faint("--")
			if d, ok := s.Duration.Get(); ok {
				duration = (time.Duration(d * float64(time.Second))).Round(time.Second).String()
			}

			cmd.Printf("%s  %s  %s  %-9s %s\n",
				style.Fg(color.Purple)(s.UTC.Format(time.RFC3339)),
				s.Channel,
				duration,
				s.Kind,
				style.Faint(s.Path),
			)
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Success), segmentCount(segments))
	},
}

// scanFolder runs a scan with the shared flags, then filters and probes the result.
func scanFolder(ctx context.Context, flags *pflag.FlagSet, root string) ([]segment.Segment, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := scanOptions(flags, root)
	if err != nil {
		return nil, err
	}

	segments, err := scan.Scan(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := recent.Remember(root); err != nil {
		log.Warnf("remember %s: %v", root, err)
	}

	if flags.Lookup("filter") != nil {
		if query := lo.Must(flags.GetString("filter")); query != "" {
			segments = scan.Filter(segments, query)
		}
	}

	if probeEnabled(flags) {
		prober := probe.FromConfig()
		if !prober.Available() {
			log.Warn("ffprobe not found, durations stay unknown")
			return segments, nil
		}
		return prober.Annotate(ctx, segments)
	}

	return segments, nil
}

func segmentCount(segments []segment.Segment) string {
	return fmt.Sprintf("%s found", util.Quantify(len(segments), "segment", "segments"))
}
