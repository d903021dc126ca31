package main

import (
	"bridgeai/config"
	"bridgeai/internal/clients/webapi"
	"bridgeai/internal/ui"
	"bridgeai/utils"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type options struct {
	server   string
	out      string
	logLevel string
	clientID string
	save     bool
}

func NewCLI() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "bridge",
		Short:         "Generate modified London Bridge images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.NewLogger(opts.logLevel, config.DefaultLogFormat)
		},
	}
	root.PersistentFlags().StringVar(&opts.server, "server", "http://localhost:"+config.DefaultPort, "bridgeai server address")
	root.PersistentFlags().StringVar(&opts.out, "out", ".", "directory for saved images")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().StringVar(&opts.clientID, "client-id", "", "id sent as X-Client-Id for websocket notifications")

	generateCmd := &cobra.Command{
		Use:   "generate TEXT...",
		Short: "Generate an image from a free-text description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, strings.Join(args, " "), false)
		},
	}
	generateCmd.Flags().BoolVar(&opts.save, "save", false, "download the image after generating it")

	keys := lo.Map(ui.QuickPrompts, func(q ui.QuickPrompt, _ int) string { return q.Key })
	quickCmd := &cobra.Command{
		Use:       fmt.Sprintf("quick {%s}", strings.Join(keys, "|")),
		Short:     "Generate an image from a canned prompt",
		Args:      cobra.ExactArgs(1),
		ValidArgs: keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, ok := ui.FindQuickPrompt(args[0])
			if !ok {
				return fmt.Errorf("unknown quick prompt %q, want one of %s", args[0], strings.Join(keys, ", "))
			}
			return runGenerate(cmd, opts, q.Text, true)
		},
	}
	quickCmd.Flags().BoolVar(&opts.save, "save", false, "download the image after generating it")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := webapi.New(opts.server).Health(cmd.Context())
			if err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (status %d)\n", h.Status)
			return nil
		},
	}

	root.AddCommand(generateCmd, quickCmd, healthCmd)
	return root
}

var errEmptyPrompt = errors.New("prompt must not be empty")

func runGenerate(cmd *cobra.Command, opts *options, text string, quick bool) error {
	ctx := cmd.Context()
	client := webapi.New(opts.server).WithClientID(opts.clientID)
	saver := &reportingSaver{FileSaver: ui.NewFileSaver(opts.out), w: cmd.OutOrStdout()}
	ctrl := ui.NewController(client, saver, config.DefaultFilenamePrefix)

	stderr := cmd.ErrOrStderr()
	var prev ui.State
	ctrl.OnChange(func(s ui.State) {
		if s.IsGenerating && !prev.IsGenerating {
			fmt.Fprintln(stderr, "Generating...")
		}
		if s.IsDownloading && !prev.IsDownloading {
			fmt.Fprintln(stderr, "Downloading...")
		}
		prev = s
	})

	var issued bool
	if quick {
		issued = ctrl.QuickPrompt(ctx, text)
	} else {
		ctrl.SetPrompt(text)
		issued = ctrl.Generate(ctx)
	}
	if !issued {
		return report(cmd, errEmptyPrompt)
	}

	st := ctrl.State()
	if st.Error != "" {
		return report(cmd, errors.New(st.Error))
	}
	fmt.Fprintln(cmd.OutOrStdout(), st.GeneratedImage)

	if !opts.save {
		return nil
	}
	ctrl.Download(ctx)
	if st := ctrl.State(); st.Error != "" {
		return report(cmd, errors.New(st.Error))
	}
	return nil
}

func report(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	return err
}

// reportingSaver prints where each image landed.
type reportingSaver struct {
	*ui.FileSaver
	w io.Writer
}

func (s *reportingSaver) Save(name string, data []byte) error {
	if err := s.FileSaver.Save(name, data); err != nil {
		return err
	}
	fmt.Fprintf(s.w, "saved %s\n", filepath.Join(s.Dir, name))
	return nil
}
