// Command binkdump probes, sizes, and decodes Bink1 files from the
// command line.
//
// Usage:
//
//	binkdump info <input.bik>      Display the file header and track list
//	binkdump sizes <input.bik>     Dump each frame's audio/plane packet sizes
//	binkdump decode <input.bik>    Decode every frame to raw planar/PCM files
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"github.com/binkcore/bink1"
	"github.com/binkcore/bink1/internal/container"
	"github.com/binkcore/bink1/internal/pool"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		logger.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "binkdump",
		Short:         "Probe, size, and decode Bink1 video/audio files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (mode, outDir, tracks, quiet)")
	root.PersistentFlags().String("mode", "", "validation mode override: minimal, supported, or pedantic")

	root.AddCommand(newInfoCmd(&configPath))
	root.AddCommand(newSizesCmd(&configPath))
	root.AddCommand(newDecodeCmd(&configPath))
	return root
}

func loadCmdConfig(cmd *cobra.Command, configPath string) (*config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("binkdump: loading config: %w", err)
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Mode = mode
	}
	return cfg, nil
}

func newInfoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.bik>",
		Short: "Display the file header and track list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCmdConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.validationMode()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := container.Parse(data, mode)
			if err != nil {
				return fmt.Errorf("binkdump: parsing %s: %w", args[0], err)
			}

			h := f.Header
			fmt.Printf("revision:    %c\n", h.Revision)
			fmt.Printf("dimensions:  %dx%d\n", h.Width, h.Height)
			fmt.Printf("frames:      %d\n", h.FrameCount)
			fmt.Printf("fps:         %d/%d\n", h.FPSDividend, h.FPSDivider)
			fmt.Printf("grayscale:   %v\n", h.Grayscale())
			fmt.Printf("alpha:       %v\n", h.HasAlpha())
			fmt.Printf("scalingMode: %d\n", h.ScalingMode())
			for i, t := range f.Tracks {
				fmt.Printf("track[%d]:    id=%d channels=%d rate=%d stereo=%v dct=%v\n",
					i, t.ID, t.ChannelCount, t.SampleRate, t.Stereo(), t.DCT())
			}
			return nil
		},
	}
}

func newSizesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sizes <input.bik>",
		Short: "Dump each frame's audio/plane packet sizes without decoding them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCmdConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.validationMode()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := container.Parse(data, mode)
			if err != nil {
				return fmt.Errorf("binkdump: parsing %s: %w", args[0], err)
			}

			for i := 0; i < int(f.Header.FrameCount); i++ {
				sizes, err := frameSizes(f, data, i)
				if err != nil {
					logger.Error("reading frame sizes", "frame", i, "err", err)
					continue
				}
				fmt.Printf("frame[%d] keyframe=%v %s\n", i, f.Keyframe[i], sizes)
			}
			return nil
		},
	}
}

// frameSizes walks one frame's sub-packet layout (spec.md section 4.7)
// far enough to report each field's size without running any decoder.
func frameSizes(f *container.File, data []byte, i int) (string, error) {
	start, end := f.FrameOffsets[i], f.FrameOffsets[i+1]
	if end < start || int(end) > len(data) {
		return "", bink1.ErrCorruptStream
	}
	buf := data[start:end]
	out := ""

	for t := range f.Tracks {
		size, rest, err := readSizePrefix(buf)
		if err != nil {
			return "", err
		}
		buf = rest
		out += fmt.Sprintf("audio[%d]=%d ", t, size)
		if size == 0 {
			continue
		}
		if len(buf) < 4 {
			return "", bink1.ErrEndOfStream
		}
		buf = buf[4:] // sampleCount
		if int(size-4) > len(buf) {
			return "", bink1.ErrCorruptStream
		}
		buf = buf[size-4:]
	}

	if f.Header.HasAlpha() {
		size, rest, err := readSizePrefix(buf)
		if err != nil {
			return "", err
		}
		buf = rest
		out += fmt.Sprintf("alpha=%d ", size)
		if int(size-4) > len(buf) {
			return "", bink1.ErrCorruptStream
		}
		buf = buf[size-4:]
	}

	lumaSize, rest, err := readSizePrefix(buf)
	if err != nil {
		return "", err
	}
	buf = rest
	out += fmt.Sprintf("y=%d ", lumaSize)
	if int(lumaSize-4) > len(buf) {
		return "", bink1.ErrCorruptStream
	}
	buf = buf[lumaSize-4:]

	if !f.Header.Grayscale() {
		for _, name := range []string{"u", "v"} {
			size, rest, err := readSizePrefix(buf)
			if err != nil {
				return "", err
			}
			buf = rest
			out += fmt.Sprintf("%s=%d ", name, size)
			if int(size-4) > len(buf) {
				return "", bink1.ErrCorruptStream
			}
			buf = buf[size-4:]
		}
	}
	return out, nil
}

func readSizePrefix(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, bink1.ErrEndOfStream
	}
	return binary.LittleEndian.Uint32(data), data[4:], nil
}

func newDecodeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <input.bik>",
		Short: "Decode every frame to raw planar Y/U/V/alpha and PCM files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCmdConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.validationMode()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := container.Parse(data, mode)
			if err != nil {
				return fmt.Errorf("binkdump: parsing %s: %w", args[0], err)
			}
			driver, err := bink1.NewDriver(data, mode, trackMask(cfg, len(f.Tracks)))
			if err != nil {
				return fmt.Errorf("binkdump: opening %s: %w", args[0], err)
			}

			outDir := cfg.OutDir
			if outDir == "" {
				outDir = "."
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if !cfg.Quiet {
				bar = progressbar.NewOptions(driver.FrameCount(), progressbar.OptionSetWriter(os.Stderr))
			}

			for i := 0; !driver.Done(); i++ {
				frame, err := driver.Next(data)
				if err != nil {
					return fmt.Errorf("binkdump: decoding frame %d: %w", i, err)
				}
				if err := writeFrame(outDir, i, frame); err != nil {
					return fmt.Errorf("binkdump: writing frame %d: %w", i, err)
				}
				if bar != nil {
					bar.Add(1)
				}
			}
			logger.Info("decode complete", "frames", driver.FrameCount(), "outDir", outDir)
			return nil
		},
	}
}

func trackMask(cfg *config, trackCount int) []bool {
	if len(cfg.Tracks) == 0 {
		return nil
	}
	top := trackCount
	for _, t := range cfg.Tracks {
		if t+1 > top {
			top = t + 1
		}
	}
	mask := make([]bool, top)
	for _, t := range cfg.Tracks {
		mask[t] = true
	}
	return mask
}

func writeFrame(outDir string, i int, frame *bink1.Frame) error {
	planes := map[string][]byte{"y": frame.Y, "u": frame.U, "v": frame.V, "a": frame.Alpha}
	for name, buf := range planes {
		if buf == nil {
			continue
		}
		path := filepath.Join(outDir, fmt.Sprintf("frame%06d.%s.raw", i, name))
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return err
		}
	}
	for t, pcm := range frame.Audio {
		if pcm == nil {
			continue
		}
		path := filepath.Join(outDir, fmt.Sprintf("frame%06d.track%d.pcm", i, t))
		raw := pool.Get(len(pcm) * 2)
		for j, s := range pcm {
			binary.LittleEndian.PutUint16(raw[j*2:], uint16(s))
		}
		err := os.WriteFile(path, raw, 0o644)
		pool.Put(raw)
		if err != nil {
			return err
		}
	}
	return nil
}
