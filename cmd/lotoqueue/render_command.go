package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lotoqueue/internal/lottery"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var draw lottery.Draw
	var videoOnly, imageOnly bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the image and video for one draw locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(draw.Lottery) == "" {
				return fmt.Errorf("--lottery is required")
			}
			if videoOnly && imageOnly {
				return fmt.Errorf("--video-only and --image-only are mutually exclusive")
			}
			renderer := ctx.deps.renderer(cfg, ctx.commandLogger(cmd))
			out := cmd.OutOrStdout()

			if !videoOnly {
				path, err := renderer.RenderImage(cmd.Context(), draw)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Image: %s\n", path)
			}
			if !imageOnly {
				path, err := renderer.RenderVideo(cmd.Context(), draw)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Video: %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&draw.Lottery, "lottery", "", "Lottery name, e.g. \"Mega-Sena\"")
	cmd.Flags().StringVar(&draw.Contest, "contest", "", "Contest number")
	cmd.Flags().StringVar(&draw.Date, "date", "", "Draw date as shown on the card")
	cmd.Flags().StringVar(&draw.Numbers, "numbers", "", "Drawn numbers separated by spaces, commas or semicolons")
	cmd.Flags().StringVar(&draw.URL, "url", "", "Results page URL")
	cmd.Flags().BoolVar(&videoOnly, "video-only", false, "Only render the video")
	cmd.Flags().BoolVar(&imageOnly, "image-only", false, "Only render the image")
	return cmd
}
