package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-voxel-raymarcher/web/server"
)

func main() {
	config := server.DefaultConfig()

	// Parse command line flags
	flag.IntVar(&config.Port, "port", config.Port, "Port to serve on")
	flag.StringVar(&config.StaticDir, "static", config.StaticDir, "Directory of static files")
	flag.StringVar(&config.ScenesDir, "scenes", config.ScenesDir, "Directory scanned for <name>_<size>x.bin voxel files")
	flag.StringVar(&config.Scene.Environment, "env", "", "Environment image for every scene (default: procedural sky)")
	flag.StringVar(&config.Scene.CacheDir, "cache", "cache", "Distance field cache directory (empty = no cache)")
	flag.IntVar(&config.Scene.PresetSize, "preset-size", config.Scene.PresetSize, "Grid side of built-in scenes")
	flag.BoolVar(&config.Scene.Voxels.FillHollows, "fill", false, "Fill cavities of voxel files")
	flag.IntVar(&config.Workers, "workers", 0, "Number of render workers (0 = number of CPUs)")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(config)

	log.Printf("Voxel Ray Marcher Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", config.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
