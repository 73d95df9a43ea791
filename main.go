package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"cadenza/cmd"
	"cadenza/config"
	"cadenza/services"
	"cadenza/types"
)

func main() {
	var (
		url     string
		kind    string
		threads int
		path    string
		server  bool
		port    int
	)

	flag.StringVar(&url, "url", "", "Spotify URL to download")
	flag.StringVar(&kind, "type", "track", "Content type: track, album or playlist")
	flag.IntVar(&threads, "threads", 4, "Download threads for albums and playlists")
	flag.StringVar(&path, "path", "", "Download directory (default: resolved from settings)")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.Parse()

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(strconv.Itoa(port))
		return
	}

	if url == "" {
		fmt.Fprintln(os.Stderr, "Usage: cadenza -url <spotify-url> [-type track|album|playlist] [-threads N]")
		fmt.Fprintln(os.Stderr, "       cadenza -server [-port N]")
		os.Exit(2)
	}

	contentKind := types.ContentKind(kind)
	if !contentKind.Valid() {
		log.Fatalf("Invalid content type %q: must be track, album or playlist", kind)
	}

	if path == "" {
		path = config.DownloadLocation()
	}

	supervisor := services.NewSupervisor(config.SpotdlPath(), services.NewConsoleSink())

	job, results, err := supervisor.Start(types.JobSpec{
		URL:     url,
		Kind:    contentKind,
		Threads: threads,
		Dir:     path,
	})
	if err != nil {
		log.Fatalf("Failed to start download: %v", err)
	}
	log.Printf("Started job %s for %s", job.ID, url)

	// Ctrl-C cancels the download and we still wait for the terminal
	// result below.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		log.Printf("Signal received: %s, cancelling download", sig)
		if err := supervisor.Cancel(); err != nil {
			log.Printf("Cancel failed: %v", err)
		}
	}()

	res := <-results
	switch res.Outcome {
	case types.OutcomeCompleted:
		log.Printf("%s (%d tracks)", res.Message, res.TotalTracks)
	case types.OutcomeCancelled:
		log.Printf("%s", res.Message)
		os.Exit(1)
	default:
		log.Printf("%s", res.Message)
		os.Exit(1)
	}
}
