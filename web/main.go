package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/scene"
	"github.com/df07/go-sphere-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", scene.ScenesDir, "Directory of JSON scene files")
	flag.Parse()

	scene.ScenesDir = *scenesDir

	// Create and start web server
	webServer := server.NewServer(*port)

	log.Printf("Sphere Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
