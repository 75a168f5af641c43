package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recera/dotrender/cmd/dotrender/internal/config"
	"github.com/recera/dotrender/cmd/dotrender/internal/ui"
	"github.com/recera/dotrender/pkg/components/dotrender"
	"github.com/recera/dotrender/pkg/diagram"
	"github.com/recera/dotrender/pkg/layout/graphviz"
	"github.com/recera/dotrender/pkg/renderer/html"
)

type renderOptions struct {
	width  float64
	height float64
	layout string
	output string
	host   bool
	quiet  bool
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [FILE]",
		Short: "Render a DOT file to a fitted SVG",
		Long: `Renders FILE (or stdin when FILE is "-" or omitted) with Graphviz and writes
the SVG scaled down to fit the configured box.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				cfg.Width = opts.width
			}
			if cmd.Flags().Changed("height") {
				cfg.Height = opts.height
			}
			if cmd.Flags().Changed("layout") {
				cfg.Layout = opts.layout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			file := "-"
			if len(args) == 1 {
				file = args[0]
			}
			return runRender(cmd.Context(), cfg, file, opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().Float64VarP(&opts.width, "width", "W", 0, "Box width in display units")
	cmd.Flags().Float64VarP(&opts.height, "height", "H", 0, "Box height in display units")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "Graphviz layout engine (dot, neato, fdp, circo, twopi)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the SVG to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.host, "host", false, "Wrap the SVG in a <dot-render> element")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print a summary")

	return cmd
}

func runRender(ctx context.Context, cfg *config.Config, file string, opts renderOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger(cfg.Log, verbose, stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	content, err := readInput(file, stdin)
	if err != nil {
		return err
	}

	layout, err := graphviz.ParseLayout(cfg.Layout)
	if err != nil {
		return err
	}
	r, err := graphviz.New(ctx, graphviz.WithLayout(layout))
	if err != nil {
		return err
	}
	defer r.Close()

	spec := diagram.Spec{Width: cfg.Width, Height: cfg.Height, Content: content}
	log.Debug("rendering", zap.String("file", file), zap.String("layout", string(layout)), zap.Float64("width", spec.Width), zap.Float64("height", spec.Height))

	node, size, err := dotrender.Static(r, spec, diagram.WithLogger(log))
	if err != nil {
		if !opts.quiet {
			fmt.Fprintln(stderr, ui.Summary(file, diagram.Event{Kind: diagram.EventFailed, Spec: spec, Err: err}))
		}
		return fmt.Errorf("render %s: %w", file, err)
	}

	out := node
	if !opts.host {
		out = &node.Kids[0]
	}
	markup, err := html.RenderToString(out)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(markup+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.output, err)
		}
	} else {
		fmt.Fprintln(stdout, markup)
	}

	if !opts.quiet {
		fmt.Fprintln(stderr, ui.Summary(file, diagram.Event{Kind: diagram.EventApplied, Spec: spec, Size: size}))
	}
	return nil
}

func readInput(file string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}
