package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/denisAlshanov/vidsplit/internal/config"
	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/services/merge"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
)

// Usage: go run ./scripts/probe.go <video-url> [quality] [codec]
func main() {
	fmt.Println("vidsplit tool probe")
	fmt.Println("===================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	cookiesFile := ""
	if _, err := os.Stat(cfg.YTDLP.CookiesPath); err == nil {
		cookiesFile = cfg.YTDLP.CookiesPath
	}
	client := ytdlp.NewClient(cfg.YTDLP.BinaryPath, cfg.YTDLP.MetadataTimeout, cookiesFile)

	version, err := client.Version(ctx)
	if err != nil {
		log.Fatalf("yt-dlp is not runnable at %q: %v", client.BinaryPath(), err)
	}
	fmt.Printf("yt-dlp:  %s\n", version)

	muxer := merge.NewFFmpegMuxer(cfg.Merge.FFmpegPath)
	if v, err := muxer.Version(ctx); err == nil {
		fmt.Printf("ffmpeg:  %s\n", v)
	} else {
		fmt.Println("ffmpeg:  not available, server-side merge disabled")
	}
	fmt.Printf("cookies: %q\n", cookiesFile)

	if len(os.Args) < 2 {
		return
	}

	req := formats.SelectionRequest{QualityCeiling: cfg.Selection.DefaultQuality}
	if len(os.Args) > 2 {
		fmt.Sscanf(os.Args[2], "%d", &req.QualityCeiling)
	}
	if len(os.Args) > 3 {
		if req.Codec, err = formats.ParseCodecTag(os.Args[3]); err != nil {
			log.Fatalf("Invalid codec: %v", err)
		}
	}

	fmt.Println("\nFetching metadata...")
	info, err := client.FetchInfo(ctx, os.Args[1])
	if err != nil {
		log.Fatalf("Metadata fetch failed: %v", err)
	}
	fmt.Printf("%s by %s (%.0fs, %d formats)\n", info.Title, info.Author, info.DurationSeconds, len(info.Formats))

	pair, err := formats.SelectPair(info.Formats, req)
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	estimate := formats.EstimateBreakdown(pair, info.DurationSeconds)

	fmt.Printf("video:   %s %s %dp (%s)\n", pair.Video.FormatID, pair.Video.VideoCodec, pair.Video.HeightOrZero(), estimate.Video.Source)
	fmt.Printf("audio:   %s %s (%s)\n", pair.Audio.FormatID, pair.Audio.AudioCodec, estimate.Audio.Source)
	fmt.Printf("size:    %s\n", humanize.IBytes(uint64(estimate.Total)))
	if pair.CodecRelaxed || pair.CeilingRelaxed {
		fmt.Printf("fallback: codec=%v quality=%v\n", pair.CodecRelaxed, pair.CeilingRelaxed)
	}
}
