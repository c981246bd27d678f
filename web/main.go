package main

import (
	"flag"
	"os"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/scene"
	"github.com/df07/go-lumen2d/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := core.NewDefaultLogger("lumen2d-web", *debug)
	for _, info := range scene.List() {
		logger.Debugf("scene %s: %s", info.Name, info.Description)
	}
	logger.Infof("serving %d scenes, visit http://localhost:%d to start rendering", len(scene.List()), *port)

	if err := server.NewServer(*port, *debug).Start(); err != nil {
		logger.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
